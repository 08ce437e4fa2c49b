package checklist

import (
	"encoding/json"
	"fmt"
)

// ParseError means the model's output was not JSON at all. It carries the
// raw text so callers can show the user what actually came back.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("checklist response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError means the output parsed as JSON but does not conform to the
// checklist contract. Distinct from ParseError because the two need
// different user feedback: one is model formatting noise, the other is a
// structural deviation.
type SchemaError struct {
	Raw string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("checklist does not conform to schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Decode parses sanitized model output into a RequirementChecklist.
// Validation happens in three passes: JSON parse, JSON Schema conformance,
// then the cross-field invariants in Validate. The input must already have
// had code fences stripped (llm.StripFences).
func Decode(raw string) (*RequirementChecklist, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	schema, err := compiledChecklistSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling checklist schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &SchemaError{Raw: raw, Err: err}
	}

	var c RequirementChecklist
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		// Schema passed but the struct decode failed — still a conformance
		// problem (e.g. a number where the struct expects a string).
		return nil, &SchemaError{Raw: raw, Err: err}
	}

	if err := c.Validate(); err != nil {
		return nil, &SchemaError{Raw: raw, Err: err}
	}

	return &c, nil
}

// CanonicalJSON renders a checklist as indented JSON, the form embedded
// verbatim in the policy synthesis prompt.
func CanonicalJSON(c *RequirementChecklist) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling checklist: %w", err)
	}
	return string(data), nil
}
