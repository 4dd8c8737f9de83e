// Package content loads the YAML game content a session runs on: items, talents,
// player sheets, NPC templates, and lookup tables.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/table"
)

// Subdirectories of a content directory. Each one is optional.
const (
	ItemsDir      = "items"
	TalentsDir    = "talents"
	CharactersDir = "characters"
	NPCsDir       = "npcs"
	TablesDir     = "tables"
)

// ErrUnknownTemplate is returned when spawning from a template ID that was not loaded.
var ErrUnknownTemplate = errors.New("unknown npc template")

// Library is every content definition loaded from one directory.
type Library struct {
	Items     *inventory.Registry
	Talents   map[string]*character.TalentDef
	Sheets    []*character.SheetDef
	Templates map[string]*npc.Template
	Tables    *table.Registry
}

// Empty returns a Library with no content beyond the built-in tables.
func Empty() *Library {
	return &Library{
		Items:     inventory.NewRegistry(),
		Talents:   map[string]*character.TalentDef{},
		Templates: map[string]*npc.Template{},
		Tables:    table.Defaults(),
	}
}

// Load reads dir's subdirectories. A missing subdirectory contributes nothing.
//
// Precondition: dir must exist.
// Postcondition: Returns a fully populated Library or the first load error.
func Load(dir string) (*Library, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	lib := Empty()
	sub := func(name string) (string, bool) {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		return p, err == nil && info.IsDir()
	}

	if p, ok := sub(ItemsDir); ok {
		items, err := inventory.LoadItems(p)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			if err := lib.Items.Register(it); err != nil {
				return nil, err
			}
		}
	}
	if p, ok := sub(TalentsDir); ok {
		talents, err := character.LoadTalents(p)
		if err != nil {
			return nil, err
		}
		lib.Talents = talents
	}
	if p, ok := sub(CharactersDir); ok {
		sheets, err := character.LoadSheets(p)
		if err != nil {
			return nil, err
		}
		lib.Sheets = sheets
	}
	if p, ok := sub(NPCsDir); ok {
		templates, err := npc.LoadTemplates(p)
		if err != nil {
			return nil, err
		}
		for _, t := range templates {
			lib.Templates[t.ID] = t
		}
	}
	if p, ok := sub(TablesDir); ok {
		tables, err := table.LoadDirectory(p)
		if err != nil {
			return nil, err
		}
		lib.Tables = tables
	}
	return lib, nil
}

// Characters builds every loaded sheet into a Character.
//
// Postcondition: Returns all characters, or every build error joined.
func (l *Library) Characters() ([]*character.Character, error) {
	var (
		out  []*character.Character
		errs []error
	)
	for _, def := range l.Sheets {
		c, err := character.Build(def, l.Items, l.Talents)
		if err != nil {
			errs = append(errs, fmt.Errorf("character %q: %w", def.ID, err))
			continue
		}
		out = append(out, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Spawn creates an NPC instance with id from the template templateID.
func (l *Library) Spawn(templateID, id string) (*npc.Instance, error) {
	tmpl, ok := l.Templates[templateID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	return npc.NewInstance(id, tmpl, l.Items)
}

// TemplateIDs returns the loaded template IDs in sorted order.
func (l *Library) TemplateIDs() []string {
	out := make([]string, 0, len(l.Templates))
	for id := range l.Templates {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
