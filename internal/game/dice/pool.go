package dice

// Pool is the number of base and stress dice for one roll.
//
// Invariant (after help/hurt has been applied): Base >= 1.
type Pool struct {
	Base   int
	Stress int
}

// RollPool rolls every die in p and packages the faces into a RollResult.
//
// Precondition: src must be non-nil; p.Base and p.Stress must be >= 0.
// Postcondition: len(result.BaseDice) == p.Base, len(result.StressDice) == p.Stress,
// and the RollResult invariants hold.
func RollPool(src Source, p Pool, skill string, pushed bool) RollResult {
	base := rollN(src, p.Base)
	stress := rollN(src, p.Stress)
	return NewRollResult(skill, base, stress, pushed)
}

func rollN(src Source, n int) []int {
	if n < 0 {
		n = 0
	}
	faces := make([]int, n)
	for i := range faces {
		faces[i] = RollDie(src)
	}
	return faces
}
