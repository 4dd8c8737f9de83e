package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with the pool, faces, and outcome.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source so a Roller can be passed wherever a Source is
// expected (e.g. random target selection).
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// RollPool rolls p and logs the result.
//
// Postcondition: result logged; returns the RollResult from RollPool.
func (r *Roller) RollPool(p Pool, skill string, pushed bool) RollResult {
	result := RollPool(r.src, p, skill, pushed)
	r.logger.Debug("dice roll",
		zap.String("skill", result.Skill),
		zap.Int("base", result.BaseDicePool),
		zap.Int("stress", result.StressDicePool),
		zap.Ints("base_dice", result.BaseDice),
		zap.Ints("stress_dice", result.StressDice),
		zap.Int("successes", result.Successes),
		zap.Bool("messed_up", result.MessedUp),
		zap.Bool("pushed", result.Pushed),
	)
	return result
}

// RollTable rolls a table key and logs it.
func (r *Roller) RollTable(die TableDie, tableName string) TableRoll {
	result := RollTable(r.src, die, tableName)
	r.logger.Debug("table roll",
		zap.String("table", result.TableName),
		zap.String("die", die.String()),
		zap.String("roll", result.Roll),
	)
	return result
}
