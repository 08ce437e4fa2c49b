package llm

import "testing"

// --- StripFences ---

func TestStripFences_JSONTaggedFence(t *testing.T) {
	got := StripFences("```json\n{\"a\": 1}\n```")
	if got != `{"a": 1}` {
		t.Errorf("StripFences() = %q, want %q", got, `{"a": 1}`)
	}
}

func TestStripFences_BareFence(t *testing.T) {
	got := StripFences("```\nALLOW Principal \"x\";\n```")
	if got != `ALLOW Principal "x";` {
		t.Errorf("StripFences() = %q", got)
	}
}

func TestStripFences_CleanTextUntouched(t *testing.T) {
	in := `{"checklistMetadata": {}}`
	if got := StripFences(in); got != in {
		t.Errorf("StripFences() = %q, want input unchanged", got)
	}
}

func TestStripFences_TrimsWhitespace(t *testing.T) {
	if got := StripFences("  \n hello \n "); got != "hello" {
		t.Errorf("StripFences() = %q, want %q", got, "hello")
	}
}

func TestStripFences_OpeningFenceOnly(t *testing.T) {
	if got := StripFences("```json\n{\"a\": 1}"); got != `{"a": 1}` {
		t.Errorf("StripFences() = %q", got)
	}
}

func TestStripFences_ClosingFenceOnly(t *testing.T) {
	if got := StripFences("{\"a\": 1}\n```"); got != `{"a": 1}` {
		t.Errorf("StripFences() = %q", got)
	}
}

func TestStripFences_Idempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"a\": 1}\n```",
		"```\ntext\n```",
		"plain text",
		"",
		"   spaced   ",
	}
	for _, in := range inputs {
		once := StripFences(in)
		twice := StripFences(once)
		if once != twice {
			t.Errorf("StripFences not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripFences_RoundTrip(t *testing.T) {
	// Wrapping clean text in fences and sanitizing yields the text back.
	for _, text := range []string{
		`{"checklistMetadata": {"status": "COMPLETE"}}`,
		"ALLOW Principal \"p\" Action \"a\" On \"r\";",
		"multi\nline\ncontent",
	} {
		wrapped := "```json\n" + text + "\n```"
		if got := StripFences(wrapped); got != text {
			t.Errorf("round trip failed: StripFences(%q) = %q, want %q", wrapped, got, text)
		}
	}
}

func TestStripFences_Empty(t *testing.T) {
	if got := StripFences(""); got != "" {
		t.Errorf("StripFences(\"\") = %q, want empty", got)
	}
}
