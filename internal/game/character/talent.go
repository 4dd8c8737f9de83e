package character

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/survivors/internal/game/skill"
)

// Talent is a learned ability that adds base dice to one skill while active.
type Talent struct {
	ID     string
	Name   string
	Skill  skill.Skill
	Bonus  int
	Active bool
}

// TalentDef is the static YAML definition of a talent.
type TalentDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Skill       string `yaml:"skill"`
	Bonus       int    `yaml:"bonus"`
}

// Validate checks that the definition names a known skill and a positive bonus.
func (d *TalentDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("talent: id must not be empty")
	}
	if _, ok := skill.Parse(d.Skill); !ok {
		return fmt.Errorf("talent %q: unknown skill %q", d.ID, d.Skill)
	}
	if d.Bonus < 1 {
		return fmt.Errorf("talent %q: bonus must be >= 1", d.ID)
	}
	return nil
}

// Talent builds an active Talent from the definition.
//
// Precondition: d.Validate() == nil.
func (d *TalentDef) Talent() Talent {
	sk, _ := skill.Parse(d.Skill)
	return Talent{ID: d.ID, Name: d.Name, Skill: sk, Bonus: d.Bonus, Active: true}
}

// LoadTalents reads every *.yaml file in dir as a TalentDef.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns definitions keyed by ID, or an error if any file fails.
func LoadTalents(dir string) (map[string]*TalentDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading talent dir %q: %w", dir, err)
	}
	out := make(map[string]*TalentDef)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def TalentDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		out[def.ID] = &def
	}
	return out, nil
}
