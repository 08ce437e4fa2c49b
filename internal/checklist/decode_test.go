package checklist

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// validChecklistJSON renders the analyze_test fixture as JSON.
func validChecklistJSON(t *testing.T) string {
	t.Helper()
	c := baseChecklist()
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshaling fixture: %v", err)
	}
	return string(data)
}

// --- Decode: happy path ---

func TestDecode_ValidChecklist(t *testing.T) {
	c, err := Decode(validChecklistJSON(t))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if c.Metadata.Status != StatusComplete {
		t.Errorf("Status = %s, want COMPLETE", c.Metadata.Status)
	}
	if len(c.Requirements) != 1 {
		t.Fatalf("Requirements = %d, want 1", len(c.Requirements))
	}
	if c.Requirements[0].Actions.Service != "s3" {
		t.Errorf("Actions.Service = %s, want s3", c.Requirements[0].Actions.Service)
	}
}

// --- Decode: parse errors ---

func TestDecode_NonJSONReturnsParseError(t *testing.T) {
	_, err := Decode("Sorry, I cannot help with that.")
	if err == nil {
		t.Fatal("Decode() should fail on non-JSON input")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error should be *ParseError, got %T: %v", err, err)
	}
	if parseErr.Raw != "Sorry, I cannot help with that." {
		t.Errorf("ParseError.Raw = %q, want the offending text", parseErr.Raw)
	}
	if parseErr.Unwrap() == nil {
		t.Error("ParseError should wrap the underlying parse failure")
	}
}

func TestDecode_TruncatedJSONReturnsParseError(t *testing.T) {
	full := validChecklistJSON(t)
	_, err := Decode(full[:len(full)/2])

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("truncated JSON should yield *ParseError, got %T: %v", err, err)
	}
}

// --- Decode: schema errors ---

func TestDecode_MissingMetadataReturnsSchemaError(t *testing.T) {
	_, err := Decode(`{"policyIntent": {}, "requirements": [], "resolutionGuidance": {}}`)
	if err == nil {
		t.Fatal("Decode() should reject a checklist without metadata")
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error should be *SchemaError, got %T: %v", err, err)
	}
}

func TestDecode_InvalidStatusEnumReturnsSchemaError(t *testing.T) {
	raw := strings.Replace(validChecklistJSON(t), `"status":"COMPLETE"`, `"status":"DONE"`, 1)
	_, err := Decode(raw)

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("bad enum should yield *SchemaError, got %T: %v", err, err)
	}
}

func TestDecode_ParseAndSchemaErrorsAreDistinct(t *testing.T) {
	_, parseErr := Decode("not json")
	_, schemaErr := Decode(`{"wrong": "shape"}`)

	var pe *ParseError
	var se *SchemaError
	if !errors.As(parseErr, &pe) || errors.As(parseErr, &se) {
		t.Errorf("non-JSON input must be ParseError only, got %v", parseErr)
	}
	if !errors.As(schemaErr, &se) || errors.As(schemaErr, &pe) {
		t.Errorf("non-conforming JSON must be SchemaError only, got %v", schemaErr)
	}
}

// --- Decode: invariant violations ---

func TestDecode_AmbiguousWithoutReasonFails(t *testing.T) {
	c := baseChecklist()
	c.Requirements[0].Principal.Confidence = ConfidenceAmbiguous
	c.Requirements[0].Principal.AmbiguityReason = ""
	data, _ := json.Marshal(c)

	_, err := Decode(string(data))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("AMBIGUOUS without reason should yield *SchemaError, got %T: %v", err, err)
	}
}

func TestDecode_ResolvedExceedingTotalFails(t *testing.T) {
	c := baseChecklist()
	c.Metadata.ResolvedRequirements = 5
	c.Metadata.TotalRequirements = 1
	data, _ := json.Marshal(c)

	_, err := Decode(string(data))
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("resolved > total should yield *SchemaError, got %T: %v", err, err)
	}
}

// --- CanonicalJSON ---

func TestCanonicalJSON_RoundTrips(t *testing.T) {
	c := baseChecklist()
	doc, err := CanonicalJSON(c)
	if err != nil {
		t.Fatalf("CanonicalJSON() failed: %v", err)
	}
	if !strings.Contains(doc, "\n  \"checklistMetadata\"") {
		t.Errorf("canonical form should be indented:\n%s", doc)
	}

	back, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode(CanonicalJSON()) failed: %v", err)
	}
	if back.Metadata.Status != c.Metadata.Status {
		t.Errorf("round-trip changed status: %s != %s", back.Metadata.Status, c.Metadata.Status)
	}
}
