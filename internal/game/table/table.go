// Package table holds rollable d6/d66/d666 lookup tables and the built-in tables the
// engine itself consults (walker attacks and swarm attacks).
package table

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/survivors/internal/game/dice"
)

// Table IDs the engine rolls on directly.
const (
	WalkerAttack = "walker_attack"
	SwarmAttack  = "swarm_attack"
)

// ErrUnknownTable is returned when rolling on a table ID that is not registered.
var ErrUnknownTable = errors.New("unknown table")

// Outcome tags an entry with a mechanical meaning the engine acts on.
type Outcome string

const (
	OutcomeNone         Outcome = ""
	OutcomeSingleAttack Outcome = "single_attack"
	OutcomeFullBlock    Outcome = "full_block"
	OutcomeMassAttack   Outcome = "mass_attack"
)

// Entry covers the inclusive key range [Min, Max].
type Entry struct {
	Min     int     `yaml:"min"`
	Max     int     `yaml:"max"`
	Text    string  `yaml:"text"`
	Damage  int     `yaml:"damage"`
	Stress  int     `yaml:"stress"`
	Outcome Outcome `yaml:"outcome"`
}

// Def is a named table loaded from YAML.
type Def struct {
	ID      string  `yaml:"id"`
	Name    string  `yaml:"name"`
	Die     string  `yaml:"die"` // "d6" | "d66" | "d666"
	Entries []Entry `yaml:"entries"`
}

// TableDie returns the parsed roller kind for d.Die.
func (d *Def) TableDie() (dice.TableDie, error) {
	return dice.ParseTableDie(d.Die)
}

// Validate reports every problem with d in one error.
//
// Postcondition: Returns nil when d has an ID, a known die, and at least one well-formed entry.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if _, err := d.TableDie(); err != nil {
		errs = append(errs, err)
	}
	if len(d.Entries) == 0 {
		errs = append(errs, errors.New("entries must not be empty"))
	}
	for i, e := range d.Entries {
		if e.Min > e.Max {
			errs = append(errs, fmt.Errorf("entry %d: min %d > max %d", i, e.Min, e.Max))
		}
		if e.Damage < 0 || e.Stress < 0 {
			errs = append(errs, fmt.Errorf("entry %d: damage and stress must be >= 0", i))
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the first entry whose range contains key.
func (d *Def) Lookup(key int) (Entry, bool) {
	for _, e := range d.Entries {
		if key >= e.Min && key <= e.Max {
			return e, true
		}
	}
	return Entry{}, false
}

// Result is one roll on a table.
type Result struct {
	Roll  dice.TableRoll
	Entry Entry
	// Found is false when the rolled key falls outside every entry.
	Found bool
}

// Registry holds table definitions keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def, replacing any existing table with the same ID.
//
// Precondition: def must not be nil.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the table for id.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// IDs returns every registered table ID in sorted order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.defs))
	for id := range r.defs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Roll rolls on table id with roller.
//
// Postcondition: Returns ErrUnknownTable (wrapped) when id is not registered.
func (r *Registry) Roll(roller *dice.Roller, id string) (Result, error) {
	def, ok := r.defs[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownTable, id)
	}
	die, err := def.TableDie()
	if err != nil {
		return Result{}, fmt.Errorf("table %q: %w", id, err)
	}
	roll := roller.RollTable(die, def.ID)
	entry, found := def.Lookup(roll.Key())
	return Result{Roll: roll, Entry: entry, Found: found}, nil
}

// Defaults returns a Registry holding the built-in walker_attack and swarm_attack tables.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register(&Def{
		ID:   WalkerAttack,
		Name: "Walker Attack",
		Die:  "d6",
		Entries: []Entry{
			{Min: 1, Max: 2, Text: "The walker grabs at you but you tear free, shaken.", Stress: 1},
			{Min: 3, Max: 4, Text: "Rotten fingers rake across you.", Damage: 1},
			{Min: 5, Max: 5, Text: "The walker drags you down and bites.", Damage: 2},
			{Min: 6, Max: 6, Text: "Teeth sink deep. You scream.", Damage: 3, Stress: 1},
		},
	})
	r.Register(&Def{
		ID:   SwarmAttack,
		Name: "Swarm Attack",
		Die:  "d6",
		Entries: []Entry{
			{Min: 1, Max: 3, Text: "A single walker breaks from the swarm.", Outcome: OutcomeSingleAttack},
			{Min: 4, Max: 5, Text: "The dead press in and block every way out.", Outcome: OutcomeFullBlock},
			{Min: 6, Max: 6, Text: "The swarm crashes over the whole group.", Outcome: OutcomeMassAttack},
		},
	})
	return r
}

// LoadDirectory reads every *.yaml file in dir as a Def and registers it on top of
// Defaults, so content may override the built-in tables.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading table dir %q: %w", dir, err)
	}
	reg := Defaults()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
