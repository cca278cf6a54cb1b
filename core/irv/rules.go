package irv

import "fmt"

// Rules selects the elimination policy for a run. It is always passed
// explicitly; nothing in this package keeps rule state between calls.
type Rules int

const (
	// BaseIRV eliminates the single lowest candidate each round and stops
	// on a strict majority of continuing ballots.
	BaseIRV Rules = iota
	// SFRCV applies the San Francisco batch rule: the largest group of
	// trailing candidates whose combined total is below every total outside
	// the group is eliminated at once.
	SFRCV
	// CompleteIRV ignores majorities and eliminates down to two candidates.
	CompleteIRV
)

func (r Rules) String() string {
	switch r {
	case BaseIRV:
		return "base"
	case SFRCV:
		return "sf"
	case CompleteIRV:
		return "complete"
	}
	return fmt.Sprintf("Rules(%d)", int(r))
}

// ParseRules maps a CLI spelling onto a Rules value.
func ParseRules(s string) (Rules, error) {
	switch s {
	case "base", "irv":
		return BaseIRV, nil
	case "sf", "sf-rcv", "rcv":
		return SFRCV, nil
	case "complete", "full":
		return CompleteIRV, nil
	}
	return 0, fmt.Errorf("unknown rules %q (want base | sf | complete)", s)
}
