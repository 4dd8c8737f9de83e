package combat

// Phase is one of the six fixed action categories resolved in order each round.
type Phase int

const (
	PhaseCover Phase = iota
	PhaseRanged
	PhaseClose
	PhaseMovement
	PhaseFirstAid
	PhaseOther
)

// NumPhases is the number of phases in a round.
const NumPhases = 6

// String returns the phase's display name.
func (p Phase) String() string {
	switch p {
	case PhaseCover:
		return "Taking Cover"
	case PhaseRanged:
		return "Ranged Combat"
	case PhaseClose:
		return "Close Combat"
	case PhaseMovement:
		return "Movement"
	case PhaseFirstAid:
		return "First Aid"
	case PhaseOther:
		return "Other/Leadership"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the six phases.
func (p Phase) Valid() bool { return p >= PhaseCover && p <= PhaseOther }

// PhaseKey identifies one phase of one round. Resolving the same key twice must not
// apply twice; session.Manager tracks the last key it processed.
type PhaseKey struct {
	Round int
	Phase Phase
}

// Next returns the key that follows k, wrapping to phase 0 of the next round.
//
// Postcondition: Next of (r, PhaseOther) is (r+1, PhaseCover).
func (k PhaseKey) Next() PhaseKey {
	if k.Phase >= PhaseOther {
		return PhaseKey{Round: k.Round + 1, Phase: PhaseCover}
	}
	return PhaseKey{Round: k.Round, Phase: k.Phase + 1}
}
