// Package effect describes the state deltas the resolution engine emits back to the
// character and NPC store.
package effect

import "fmt"

// Kind identifies which setter a Delta maps onto.
type Kind int

const (
	// SetHealth replaces the target's current health with Amount.
	SetHealth Kind = iota + 1
	// AddStress adds Amount to the target's stress.
	AddStress
	// SetCover sets the target's cover flag to Cover.
	SetCover
	// BreakItem marks the target's item ItemID as broken.
	BreakItem
)

// String returns the kind label.
func (k Kind) String() string {
	switch k {
	case SetHealth:
		return "set_health"
	case AddStress:
		return "add_stress"
	case SetCover:
		return "set_cover"
	case BreakItem:
		return "break_item"
	default:
		return "unknown"
	}
}

// Delta is one mutation to apply to the store.
type Delta struct {
	Kind     Kind
	TargetID string
	Amount   int
	Cover    bool
	ItemID   string
}

// String returns a compact audit form, e.g. "set_health(ada)=2".
func (d Delta) String() string {
	switch d.Kind {
	case SetCover:
		return fmt.Sprintf("%s(%s)=%t", d.Kind, d.TargetID, d.Cover)
	case BreakItem:
		return fmt.Sprintf("%s(%s)=%s", d.Kind, d.TargetID, d.ItemID)
	default:
		return fmt.Sprintf("%s(%s)=%d", d.Kind, d.TargetID, d.Amount)
	}
}

// Health returns a SetHealth delta.
func Health(id string, hp int) Delta { return Delta{Kind: SetHealth, TargetID: id, Amount: hp} }

// Stress returns an AddStress delta.
func Stress(id string, n int) Delta { return Delta{Kind: AddStress, TargetID: id, Amount: n} }

// Cover returns a SetCover delta.
func Cover(id string, on bool) Delta { return Delta{Kind: SetCover, TargetID: id, Cover: on} }

// Broken returns a BreakItem delta.
func Broken(id, itemID string) Delta { return Delta{Kind: BreakItem, TargetID: id, ItemID: itemID} }
