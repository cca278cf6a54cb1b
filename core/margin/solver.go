package margin

import (
	"context"
	"errors"
	"fmt"

	"irvaudit-core/election"
	"irvaudit-core/irv"
)

// ErrUnavailable is returned whenever an exact margin cannot be produced:
// no solver configured, solver unreachable, or the backend gave up.
var ErrUnavailable = errors.New("exact margin unavailable")

// Solver is the narrow capability the exact-margin computation is delegated
// to. Backends are injected by the caller and are free to time out; the core
// never retries.
type Solver interface {
	ExactMargin(ctx context.Context, e *election.Election, res irv.Result) (int, error)
}

// Unavailable is the default Solver: it always reports ErrUnavailable.
type Unavailable struct{}

func (Unavailable) ExactMargin(context.Context, *election.Election, irv.Result) (int, error) {
	return 0, ErrUnavailable
}

// Exact asks the solver for the exact margin. Every failure mode, including
// a nil solver, comes back as an error wrapping ErrUnavailable so callers
// that only need bounds can ignore it uniformly.
func Exact(ctx context.Context, s Solver, e *election.Election, res irv.Result) (int, error) {
	if s == nil {
		return 0, ErrUnavailable
	}
	m, err := s.ExactMargin(ctx, e, res)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return m, nil
}

// Bounds bundles the three internally computed margin bounds.
type Bounds struct {
	Simple int
	Lower  int
	Upper  int
}

// Compute derives all three bounds for a decided election.
func Compute(e *election.Election, rules irv.Rules, res irv.Result) Bounds {
	lb, _ := Lower(e)
	return Bounds{
		Simple: SimpleLower(e),
		Lower:  lb,
		Upper:  Upper(e, rules, res),
	}
}
