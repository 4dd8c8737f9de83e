package character

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// GearEntry references an item definition on a sheet.
type GearEntry struct {
	Item     string `yaml:"item"`
	Equipped bool   `yaml:"equipped"`
}

// SheetDef is the YAML form of a starting character sheet.
type SheetDef struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Attributes map[string]int `yaml:"attributes"`
	Skills     map[string]int `yaml:"skills"`
	Gear       []GearEntry    `yaml:"gear"`
	Talents    []string       `yaml:"talents"`
	Stress     int            `yaml:"stress"`
	MaxHealth  int            `yaml:"max_health"`
}

// Build constructs a Character from def, resolving item and talent references.
// Health starts at MaxHealth.
//
// Precondition: items must be non-nil; talents may be nil when def has no talents.
// Postcondition: Returns a Character or an error naming every unresolved reference.
func Build(def *SheetDef, items *inventory.Registry, talents map[string]*TalentDef) (*Character, error) {
	var errs []error
	if def.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if def.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if def.MaxHealth < 1 {
		errs = append(errs, errors.New("max_health must be >= 1"))
	}

	c := &Character{
		ID:         def.ID,
		Name:       def.Name,
		Attributes: make(map[skill.Attribute]int, len(def.Attributes)),
		Skills:     make(map[skill.Skill]int, len(def.Skills)),
		Stress:     def.Stress,
		Health:     def.MaxHealth,
		MaxHealth:  def.MaxHealth,
	}
	for name, v := range def.Attributes {
		c.Attributes[skill.Attribute(strings.ToLower(name))] = v
	}
	for name, v := range def.Skills {
		sk, ok := skill.Parse(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown skill %q", name))
			continue
		}
		c.Skills[sk] = v
	}
	for _, g := range def.Gear {
		d, ok := items.Item(g.Item)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown item %q", g.Item))
			continue
		}
		it := inventory.NewItem(d)
		it.Equipped = g.Equipped
		c.Gear = append(c.Gear, it)
	}
	for _, id := range def.Talents {
		td, ok := talents[id]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown talent %q", id))
			continue
		}
		c.Talents = append(c.Talents, td.Talent())
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("character %q: %w", def.ID, errors.Join(errs...))
	}
	return c, nil
}

// LoadSheets reads every *.yaml file in dir as a SheetDef.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the parsed definitions in directory order.
func LoadSheets(dir string) ([]*SheetDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading character dir %q: %w", dir, err)
	}
	var out []*SheetDef
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def SheetDef
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		out = append(out, &def)
	}
	return out, nil
}
