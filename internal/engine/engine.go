// Package engine drives the requirement-resolution loop: repeated model
// calls that turn a natural-language access-control requirement into a
// structured checklist, and — once the checklist is complete and
// unambiguous — into SPT policy statements.
//
// The loop is the core of spt-forge. Everything else (prompts, sanitizing,
// persistence, surfaces) hangs off it.
package engine

import (
	"context"
	"fmt"

	"github.com/HendryAvila/spt-forge/internal/checklist"
	"github.com/HendryAvila/spt-forge/internal/config"
	"github.com/HendryAvila/spt-forge/internal/llm"
)

// --- Outcome enum ---

// Outcome is the terminal state of one requirement's resolution run.
type Outcome string

const (
	// OutcomeSuccess: the checklist resolved and a policy was synthesized.
	OutcomeSuccess Outcome = "success"
	// OutcomeIncomplete: the attempt budget ran out with the checklist
	// still incomplete or ambiguous. Not an error — the result carries
	// the best-available checklist and feedback.
	OutcomeIncomplete Outcome = "incomplete"
	// OutcomeMaxAttempts: the loop fell through without a terminal
	// transition. Unreachable with a validated attempt budget; kept for
	// fidelity with the result contract.
	OutcomeMaxAttempts Outcome = "max_attempts_reached"
	// OutcomeError: the run aborted on a propagated failure. Only batch
	// processing records this — single runs surface the error directly.
	OutcomeError Outcome = "error"
)

// ResolutionResult is the loop's output for one requirement.
type ResolutionResult struct {
	Status          Outcome                         `json:"status"`
	Checklist       *checklist.RequirementChecklist `json:"checklist,omitempty"`
	Policy          string                          `json:"policy,omitempty"`
	Feedback        string                          `json:"feedback,omitempty"`
	MissingElements []string                        `json:"missing_elements,omitempty"`
	Attempts        int                             `json:"attempts"`
	Error           string                          `json:"error,omitempty"`
}

// Recorder receives completed runs for audit history. Implementations must
// tolerate being called best-effort: a recording failure never fails a run.
type Recorder interface {
	RecordRun(requirement string, result *ResolutionResult) error
}

// Engine owns the resolution loop and its two model interactions.
type Engine struct {
	client      llm.Client
	maxAttempts int
	recorder    Recorder
	// onAttempt, when set, observes each generation attempt (1-based).
	// Used by the CLI for progress output.
	onAttempt func(attempt int)
}

// Option configures optional Engine collaborators.
type Option func(*Engine)

// WithRecorder attaches a run-history recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithAttemptObserver attaches a per-attempt progress callback.
func WithAttemptObserver(fn func(attempt int)) Option {
	return func(e *Engine) { e.onAttempt = fn }
}

// New creates an Engine. The attempt budget comes from cfg and must be at
// least 1 — a smaller budget would fall through the loop without ever
// assigning a checklist, so it is rejected here rather than guessed around.
func New(cfg config.Config, client llm.Client, opts ...Option) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("engine: model client must not be nil")
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("engine: max attempts must be at least 1, got %d", cfg.MaxAttempts)
	}

	e := &Engine{
		client:      client,
		maxAttempts: cfg.MaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GenerateChecklist runs one checklist-generation pass: prompt, complete,
// sanitize, decode. Decode failures propagate untouched — the caller (the
// loop, or a tool invoking a single pass) decides what to do with a
// ParseError or SchemaError.
func (e *Engine) GenerateChecklist(ctx context.Context, requirement string) (*checklist.RequirementChecklist, error) {
	raw, err := e.client.Complete(ctx, checklistPrompt(requirement))
	if err != nil {
		return nil, fmt.Errorf("generating checklist: %w", err)
	}
	return checklist.Decode(llm.StripFences(raw))
}

// GeneratePolicy synthesizes SPT statements from a checklist. The policy
// text is opaque to spt-forge — it is sanitized but never parsed.
func (e *Engine) GeneratePolicy(ctx context.Context, c *checklist.RequirementChecklist) (string, error) {
	doc, err := checklist.CanonicalJSON(c)
	if err != nil {
		return "", err
	}
	raw, err := e.client.Complete(ctx, policyPrompt(doc))
	if err != nil {
		return "", fmt.Errorf("generating policy: %w", err)
	}
	return llm.StripFences(raw), nil
}

// ProcessRequirement runs the resolution loop for one requirement.
//
// Each attempt generates a fresh checklist from the current text and
// analyzes it. A resolved checklist short-circuits to policy synthesis.
// An unresolved checklist on the last attempt terminates with
// OutcomeIncomplete. Otherwise the feedback is folded back into the text
// and the loop retries. Generator and synthesizer failures propagate and
// abort the run.
func (e *Engine) ProcessRequirement(ctx context.Context, requirement string) (*ResolutionResult, error) {
	currentText := requirement

	var (
		lastChecklist *checklist.RequirementChecklist
		lastFeedback  string
		lastMissing   []string
	)

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if e.onAttempt != nil {
			e.onAttempt(attempt + 1)
		}

		c, err := e.GenerateChecklist(ctx, currentText)
		if err != nil {
			return nil, err
		}

		resolved, feedback, missing := checklist.Analyze(c)
		lastChecklist, lastFeedback, lastMissing = c, feedback, missing

		if resolved {
			policy, err := e.GeneratePolicy(ctx, c)
			if err != nil {
				return nil, err
			}
			result := &ResolutionResult{
				Status:    OutcomeSuccess,
				Checklist: c,
				Policy:    policy,
				Attempts:  attempt + 1,
			}
			e.record(requirement, result)
			return result, nil
		}

		if attempt == e.maxAttempts-1 {
			result := &ResolutionResult{
				Status:          OutcomeIncomplete,
				Checklist:       c,
				Feedback:        feedback,
				MissingElements: missing,
				Attempts:        attempt + 1,
			}
			e.record(requirement, result)
			return result, nil
		}

		currentText = buildRetryText(currentText, feedback)
	}

	// Unreachable when maxAttempts >= 1 (New enforces it), but the result
	// contract defines the fallthrough state, so honor it.
	result := &ResolutionResult{
		Status:          OutcomeMaxAttempts,
		Checklist:       lastChecklist,
		Feedback:        lastFeedback,
		MissingElements: lastMissing,
		Attempts:        e.maxAttempts,
	}
	e.record(requirement, result)
	return result, nil
}

// record forwards a completed run to the recorder, if any. Best-effort.
func (e *Engine) record(requirement string, result *ResolutionResult) {
	if e.recorder == nil {
		return
	}
	_ = e.recorder.RecordRun(requirement, result)
}
