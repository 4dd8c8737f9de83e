package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// TableDie selects how many d6 are read digit-by-digit for a table lookup.
type TableDie int

const (
	D6   TableDie = 1
	D66  TableDie = 2
	D666 TableDie = 3
)

// String returns the conventional label, e.g. "d66".
func (d TableDie) String() string {
	switch d {
	case D6:
		return "d6"
	case D66:
		return "d66"
	case D666:
		return "d666"
	default:
		return "unknown"
	}
}

// ParseTableDie parses "d6", "d66" or "d666" (case-insensitive).
//
// Postcondition: Returns a valid TableDie or a descriptive error.
func ParseTableDie(s string) (TableDie, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "d6":
		return D6, nil
	case "d66":
		return D66, nil
	case "d666":
		return D666, nil
	default:
		return 0, fmt.Errorf("dice: unknown table die %q", s)
	}
}

// TableRoll is the raw key produced for a narrative table lookup.
type TableRoll struct {
	TableName string
	Roll      string
	Dice      []int
}

// Key returns Roll as an integer, e.g. "35" → 35.
//
// Postcondition: Returns 0 when Roll is empty.
func (t TableRoll) Key() int {
	n, err := strconv.Atoi(t.Roll)
	if err != nil {
		return 0
	}
	return n
}

// RollTable rolls int(die) d6 and concatenates the faces in roll order.
//
// Precondition: src must be non-nil; die must be D6, D66 or D666.
// Postcondition: len(result.Dice) == int(die); result.Roll has one digit per die.
func RollTable(src Source, die TableDie, tableName string) TableRoll {
	faces := rollN(src, int(die))
	var b strings.Builder
	for _, f := range faces {
		b.WriteString(strconv.Itoa(f))
	}
	return TableRoll{TableName: tableName, Roll: b.String(), Dice: faces}
}

// RollD6 rolls a single-die table key in [1, 6].
func RollD6(src Source, tableName string) TableRoll { return RollTable(src, D6, tableName) }

// RollD66 rolls a two-die table key in [11, 66].
func RollD66(src Source, tableName string) TableRoll { return RollTable(src, D66, tableName) }

// RollD666 rolls a three-die table key in [111, 666].
func RollD666(src Source, tableName string) TableRoll { return RollTable(src, D666, tableName) }
