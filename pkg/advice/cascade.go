package advice

import "context"

// Cascade calls attempt for each candidate in order and returns the first success.
// When every candidate fails the errors are returned together as a *CascadeError.
// A cancelled context stops the sequence before the next candidate.
func Cascade[C, R any](ctx context.Context, candidates []C, attempt func(context.Context, C) (R, error)) (R, error) {
	var zero R
	var errs []error

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r, err := attempt(ctx, c)
		if err == nil {
			return r, nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		errs = append(errs, ErrNoCandidates)
	}
	return zero, &CascadeError{Errors: errs}
}
