// Package inventory provides gear definitions, their YAML loader, and the owned-item
// collection that feeds equipment bonuses and weapon damage into dice pools.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Kind classifies an item definition.
type Kind string

const (
	KindWeapon Kind = "weapon"
	KindArmor  Kind = "armor"
	KindGear   Kind = "gear"
)

// ItemDef defines the static properties of an item loaded from YAML.
type ItemDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
	// Skill is the skill the Bonus applies to; empty means no dice bonus.
	Skill string `yaml:"skill"`
	Bonus int    `yaml:"bonus"`
	// Damage is the weapon damage dealt on a hit; only meaningful for weapons.
	Damage       int `yaml:"damage"`
	ArmorLevel   int `yaml:"armor_level"`
	ArmorPenalty int `yaml:"armor_penalty"`
}

// IsWeapon reports whether the item is a weapon.
func (d *ItemDef) IsWeapon() bool { return d.Kind == KindWeapon }

// IsArmor reports whether the item is armor.
func (d *ItemDef) IsArmor() bool { return d.Kind == KindArmor }

// BonusSkill returns the parsed bonus skill and whether it is a known skill.
func (d *ItemDef) BonusSkill() (skill.Skill, bool) {
	return skill.Parse(d.Skill)
}

// Validate checks that the ItemDef satisfies its invariants.
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	switch d.Kind {
	case KindWeapon, KindArmor, KindGear:
	default:
		errs = append(errs, fmt.Errorf("Kind %q must be one of weapon, armor, gear", d.Kind))
	}
	if d.Skill != "" {
		if _, ok := skill.Parse(d.Skill); !ok {
			errs = append(errs, fmt.Errorf("Skill %q is not a known skill", d.Skill))
		}
	}
	if d.IsWeapon() && d.Damage < 1 {
		errs = append(errs, errors.New("weapon Damage must be >= 1"))
	}
	if d.ArmorLevel < 0 || d.ArmorPenalty < 0 {
		errs = append(errs, errors.New("armor level and penalty must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadItems reads all *.yaml files from dir, parses each as an ItemDef,
// validates it, and returns the collected slice.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var d ItemDef
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
		}
		items = append(items, &d)
	}
	return items, nil
}
