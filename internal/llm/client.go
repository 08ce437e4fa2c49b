// Package llm is the boundary to the language model: a black-box text
// completion service plus the sanitizer that cleans up its output.
//
// The model id and reasoning effort are fixed when a client is built, so
// the engine only ever deals in prompt-in / text-out.
package llm

import "context"

// Client is the single operation the engine needs from a model.
// Implementations must be safe for sequential reuse; the engine issues
// one blocking call at a time per requirement.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
