package engine

import "context"

// ProcessBatch runs the resolution loop for each requirement in order and
// returns one result per input, output ordering matching input ordering.
//
// Items are isolated: a propagated failure (model error, malformed
// checklist) is captured as an OutcomeError entry and the remaining items
// still run. This is a deliberate departure from simply aborting the
// batch — one bad requirement shouldn't cost the rest of the run.
// Context cancellation is the exception: once ctx is done, the remaining
// items are not attempted.
func (e *Engine) ProcessBatch(ctx context.Context, requirements []string) []*ResolutionResult {
	results := make([]*ResolutionResult, 0, len(requirements))

	for _, requirement := range requirements {
		if ctx.Err() != nil {
			results = append(results, &ResolutionResult{
				Status: OutcomeError,
				Error:  ctx.Err().Error(),
			})
			continue
		}

		result, err := e.ProcessRequirement(ctx, requirement)
		if err != nil {
			result = &ResolutionResult{
				Status: OutcomeError,
				Error:  err.Error(),
			}
		}
		results = append(results, result)
	}

	return results
}
