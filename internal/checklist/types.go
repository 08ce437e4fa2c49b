// Package checklist defines the structured requirements checklist — the
// machine-checkable representation an LLM produces from a natural-language
// IAM policy requirement — plus its parsing, validation, and status analysis.
//
// The JSON field names are a fixed external contract: the checklist
// generation prompt instructs the model to emit exactly this shape, and
// Decode refuses anything that doesn't conform.
//
// Design principles:
// - SRP: types, decoding, schema, and analysis in separate files
// - Pure core: Analyze has no side effects and no external calls
package checklist

import "fmt"

// --- Overall status enum ---

// Status is the checklist-level completeness verdict.
type Status string

const (
	StatusIncomplete Status = "INCOMPLETE"
	StatusAmbiguous  Status = "AMBIGUOUS"
	StatusComplete   Status = "COMPLETE"
)

var validStatuses = map[Status]bool{
	StatusIncomplete: true,
	StatusAmbiguous:  true,
	StatusComplete:   true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid checklist status %q: must be one of: INCOMPLETE, AMBIGUOUS, COMPLETE", s)
	}
	return nil
}

// --- Ambiguity level enum ---

// AmbiguityLevel grades how much interpretation freedom the requirement leaves.
type AmbiguityLevel string

const (
	AmbiguityHigh   AmbiguityLevel = "HIGH"
	AmbiguityMedium AmbiguityLevel = "MEDIUM"
	AmbiguityLow    AmbiguityLevel = "LOW"
	AmbiguityNone   AmbiguityLevel = "NONE"
)

var validAmbiguityLevels = map[AmbiguityLevel]bool{
	AmbiguityHigh:   true,
	AmbiguityMedium: true,
	AmbiguityLow:    true,
	AmbiguityNone:   true,
}

// ValidateAmbiguityLevel returns an error if the level is not recognized.
func ValidateAmbiguityLevel(l AmbiguityLevel) error {
	if !validAmbiguityLevels[l] {
		return fmt.Errorf("invalid ambiguity level %q: must be one of: HIGH, MEDIUM, LOW, NONE", l)
	}
	return nil
}

// --- Confidence enum ---

// Confidence records how certain the model is about one checklist field.
type Confidence string

const (
	ConfidenceExplicit  Confidence = "EXPLICIT"
	ConfidenceInferred  Confidence = "INFERRED"
	ConfidenceAmbiguous Confidence = "AMBIGUOUS"
	ConfidenceMissing   Confidence = "MISSING"
)

var validConfidences = map[Confidence]bool{
	ConfidenceExplicit:  true,
	ConfidenceInferred:  true,
	ConfidenceAmbiguous: true,
	ConfidenceMissing:   true,
}

// ValidateConfidence returns an error if the confidence is not recognized.
func ValidateConfidence(c Confidence) error {
	if !validConfidences[c] {
		return fmt.Errorf("invalid confidence %q: must be one of: EXPLICIT, INFERRED, AMBIGUOUS, MISSING", c)
	}
	return nil
}

// --- Per-rule status enum ---

// RuleStatus is the resolution state of a single requirement rule.
type RuleStatus string

const (
	RuleResolved   RuleStatus = "RESOLVED"
	RuleAmbiguous  RuleStatus = "AMBIGUOUS"
	RuleIncomplete RuleStatus = "INCOMPLETE"
)

// --- Intent scope enum ---

// IntentScope classifies how many policy rules the requirement implies.
type IntentScope string

const (
	ScopeSingleRule IntentScope = "SINGLE_RULE"
	ScopeMultiRule  IntentScope = "MULTI_RULE"
	ScopePolicySet  IntentScope = "POLICY_SET"
)

// --- Checklist document ---

// RequirementChecklist is the root document the checklist generator asks
// the model for. It is created fresh on every generation attempt and
// never mutated in place — each retry of the resolution loop produces a
// wholly new checklist from the feedback-augmented requirement text.
type RequirementChecklist struct {
	Metadata           Metadata           `json:"checklistMetadata"`
	PolicyIntent       PolicyIntent       `json:"policyIntent"`
	Requirements       []Requirement      `json:"requirements"`
	ResolutionGuidance ResolutionGuidance `json:"resolutionGuidance"`
}

// Metadata summarizes the checklist's completeness and ambiguity.
type Metadata struct {
	Version              string         `json:"version"`
	Status               Status         `json:"status"`
	TotalRequirements    int            `json:"totalRequirements"`
	ResolvedRequirements int            `json:"resolvedRequirements"`
	AmbiguityLevel       AmbiguityLevel `json:"ambiguityLevel"`
	ValidationErrors     []string       `json:"validationErrors,omitempty"`
	ValidationWarnings   []string       `json:"validationWarnings,omitempty"`
}

// PolicyIntent captures what the model understood the requirement to mean.
type PolicyIntent struct {
	OriginalNL   string      `json:"originalNL"`
	ParsedIntent string      `json:"parsedIntent"`
	Scope        IntentScope `json:"scope"`
}

// Requirement is one policy rule extracted from the natural-language text,
// broken into the four elements every IAM statement needs plus conditions.
type Requirement struct {
	RuleID     string          `json:"ruleId"`
	Status     RuleStatus      `json:"status"`
	Effect     EffectField     `json:"effect"`
	Principal  PrincipalField  `json:"principal"`
	Actions    ActionsField    `json:"actions"`
	Resources  ResourcesField  `json:"resources"`
	Conditions ConditionsField `json:"conditions"`
}

// EffectField is the ALLOW/DENY element of a rule.
type EffectField struct {
	Value      string     `json:"value"`
	Confidence Confidence `json:"confidence"`
	NLSource   string     `json:"nlSource"`
}

// PrincipalField identifies who the rule applies to.
type PrincipalField struct {
	Type               string     `json:"type"`
	Value              string     `json:"value"`
	Confidence         Confidence `json:"confidence"`
	AmbiguityReason    string     `json:"ambiguityReason,omitempty"`
	ResolutionRequired []string   `json:"resolutionRequired,omitempty"`
	NLSource           string     `json:"nlSource"`
}

// ActionsField identifies the service operations the rule covers.
type ActionsField struct {
	Service         string     `json:"service"`
	Operations      []string   `json:"operations"`
	Pattern         string     `json:"pattern"`
	Confidence      Confidence `json:"confidence"`
	AmbiguityReason string     `json:"ambiguityReason,omitempty"`
	NLSource        string     `json:"nlSource"`
}

// ResourcesField identifies what the rule grants or denies access to.
type ResourcesField struct {
	Type               string     `json:"type"`
	Values             []string   `json:"values"`
	Variables          []string   `json:"variables,omitempty"`
	Confidence         Confidence `json:"confidence"`
	AmbiguityReason    string     `json:"ambiguityReason,omitempty"`
	ResolutionRequired []string   `json:"resolutionRequired,omitempty"`
	NLSource           string     `json:"nlSource"`
}

// ConditionsField carries any condition expressions attached to the rule.
type ConditionsField struct {
	Present     bool     `json:"present"`
	Expressions []string `json:"expressions,omitempty"`
	NLSource    string   `json:"nlSource"`
}

// ResolutionGuidance is the model's own summary of what blocks resolution.
type ResolutionGuidance struct {
	MissingRequired   []string `json:"missingRequired"`
	AmbiguousElements []string `json:"ambiguousElements"`
	PotentialPolicies int      `json:"potentialPolicies"`
	Reason            string   `json:"reason"`
}

// --- Field views ---
//
// The analyzer walks the four required elements of every rule in a fixed
// order. fieldView flattens the element structs into the pieces the
// analyzer needs so the walk doesn't care about per-element shape.

type fieldView struct {
	name               string // capitalized, as it appears in feedback
	confidence         Confidence
	nlSource           string
	ambiguityReason    string
	resolutionRequired []string
}

// requiredFields returns the four required elements in analysis order.
func (r *Requirement) requiredFields() []fieldView {
	return []fieldView{
		{name: "Effect", confidence: r.Effect.Confidence, nlSource: r.Effect.NLSource},
		{name: "Principal", confidence: r.Principal.Confidence, nlSource: r.Principal.NLSource,
			ambiguityReason: r.Principal.AmbiguityReason, resolutionRequired: r.Principal.ResolutionRequired},
		{name: "Actions", confidence: r.Actions.Confidence, nlSource: r.Actions.NLSource,
			ambiguityReason: r.Actions.AmbiguityReason},
		{name: "Resources", confidence: r.Resources.Confidence, nlSource: r.Resources.NLSource,
			ambiguityReason: r.Resources.AmbiguityReason, resolutionRequired: r.Resources.ResolutionRequired},
	}
}

// ambiguityFields returns the elements that can carry an ambiguity reason
// (effect is binary and never reported as ambiguous by the schema).
func (r *Requirement) ambiguityFields() []fieldView {
	return r.requiredFields()[1:]
}

// Validate checks the cross-field invariants the JSON Schema cannot express:
// an AMBIGUOUS field must explain itself, and the resolved count can never
// exceed the total.
func (c *RequirementChecklist) Validate() error {
	if err := ValidateStatus(c.Metadata.Status); err != nil {
		return err
	}
	if err := ValidateAmbiguityLevel(c.Metadata.AmbiguityLevel); err != nil {
		return err
	}
	if c.Metadata.ResolvedRequirements > c.Metadata.TotalRequirements {
		return fmt.Errorf("resolvedRequirements (%d) exceeds totalRequirements (%d)",
			c.Metadata.ResolvedRequirements, c.Metadata.TotalRequirements)
	}
	for i := range c.Requirements {
		req := &c.Requirements[i]
		for _, f := range req.requiredFields() {
			if err := ValidateConfidence(f.confidence); err != nil {
				return fmt.Errorf("rule %q %s: %w", req.RuleID, f.name, err)
			}
			if f.confidence == ConfidenceAmbiguous && f.ambiguityReason == "" {
				return fmt.Errorf("rule %q: %s is AMBIGUOUS but has no ambiguityReason", req.RuleID, f.name)
			}
		}
	}
	return nil
}
