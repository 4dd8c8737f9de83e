// Package npc provides NPC template definitions and live instance snapshots.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Template defines a reusable NPC archetype loaded from YAML.
type Template struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Attributes  map[string]int `yaml:"attributes"`
	Skills      map[string]int `yaml:"skills"`
	// Expertise maps skill names to "expert" or "master"; absent skills are untrained.
	Expertise map[string]string `yaml:"expertise"`
	// Gear lists item definition IDs the NPC carries equipped.
	Gear      []string `yaml:"gear"`
	MaxHealth int      `yaml:"max_health"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHealth >= 1, and every
// skill and expertise key names a known skill.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("npc template %q: max_health must be >= 1", t.ID)
	}
	for name := range t.Skills {
		if _, ok := skill.Parse(name); !ok {
			return fmt.Errorf("npc template %q: unknown skill %q", t.ID, name)
		}
	}
	for name, tier := range t.Expertise {
		if _, ok := skill.Parse(name); !ok {
			return fmt.Errorf("npc template %q: unknown expertise skill %q", t.ID, name)
		}
		if skill.ParseTier(tier) == skill.TierNone {
			return fmt.Errorf("npc template %q: expertise %q must be expert or master", t.ID, tier)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single NPC template from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
