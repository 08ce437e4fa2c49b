package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// --- OpenAIClient.Complete ---

func TestComplete_SendsModelAndEffort(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"output_text": "hello"})
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", "o4-mini", "high")
	got, err := client.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	if got != "hello" {
		t.Errorf("Complete() = %q, want hello", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if gotBody["model"] != "o4-mini" {
		t.Errorf("model = %v, want o4-mini", gotBody["model"])
	}
	if gotBody["input"] != "the prompt" {
		t.Errorf("input = %v, want the prompt", gotBody["input"])
	}
	reasoning, ok := gotBody["reasoning"].(map[string]any)
	if !ok || reasoning["effort"] != "high" {
		t.Errorf("reasoning = %v, want effort high", gotBody["reasoning"])
	}
}

func TestComplete_ExtractsOutputMessageText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"output": [
				{"type": "reasoning", "content": []},
				{"type": "message", "content": [{"type": "output_text", "text": "from the message array"}]}
			]
		}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", "o4-mini", "high")
	got, err := client.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if got != "from the message array" {
		t.Errorf("Complete() = %q", got)
	}
}

func TestComplete_APIErrorSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-bad", "o4-mini", "high")
	_, err := client.Complete(context.Background(), "p")
	if err == nil {
		t.Fatal("Complete() should fail on 401")
	}
	if !strings.Contains(err.Error(), "Incorrect API key provided") {
		t.Errorf("error should carry the API message, got: %v", err)
	}
}

func TestComplete_EmptyOutputFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output": []}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", "o4-mini", "high")
	if _, err := client.Complete(context.Background(), "p"); err == nil {
		t.Fatal("Complete() should fail when no text comes back")
	}
}

func TestComplete_HonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", "o4-mini", "high")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Complete(ctx, "p"); err == nil {
		t.Fatal("Complete() should fail when the context is already cancelled")
	}
}

func TestComplete_OmitsReasoningWhenEffortEmpty(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"output_text": "ok"})
	}))
	defer srv.Close()

	client := NewOpenAIClient(srv.URL, "sk-test", "gpt-4.1", "")
	if _, err := client.Complete(context.Background(), "p"); err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	if _, present := gotBody["reasoning"]; present {
		t.Error("reasoning should be omitted when effort is empty")
	}
}
