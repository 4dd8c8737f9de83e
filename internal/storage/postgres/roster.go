package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/game/character"
	"github.com/cory-johannsen/survivors/internal/game/content"
	"github.com/cory-johannsen/survivors/internal/game/inventory"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/game/skill"
	"github.com/cory-johannsen/survivors/internal/roster"
)

// ErrCharacterExists is returned when creating a character whose ID is already stored.
var ErrCharacterExists = errors.New("character already exists")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RosterStore is a roster.Store backed by PostgreSQL. Item and talent definitions
// come from the content library; rows hold only IDs and mutable state.
type RosterStore struct {
	db     *pgxpool.Pool
	lib    *content.Library
	logger *zap.Logger
}

var _ roster.Store = (*RosterStore)(nil)

// NewRosterStore creates a RosterStore.
//
// Precondition: db must be a valid, open connection pool with migrations applied;
// lib and logger must be non-nil.
func NewRosterStore(db *pgxpool.Pool, lib *content.Library, logger *zap.Logger) *RosterStore {
	return &RosterStore{db: db, lib: lib, logger: logger}
}

// CreateCharacter inserts c and its gear.
//
// Postcondition: Returns ErrCharacterExists when c.ID is taken.
func (s *RosterStore) CreateCharacter(ctx context.Context, c *character.Character) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if err := insertCharacter(ctx, tx, c, false); err != nil {
			return err
		}
		return replaceGear(ctx, tx, c.ID, c.Gear)
	})
}

// Seed inserts every character the library defines that is not stored yet.
// Stored characters keep their state across restarts.
//
// Postcondition: Returns the number of characters inserted.
func (s *RosterStore) Seed(ctx context.Context) (int, error) {
	chars, err := s.lib.Characters()
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, c := range chars {
		err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			if err := insertCharacter(ctx, tx, c, true); err != nil {
				return err
			}
			return replaceGear(ctx, tx, c.ID, c.Gear)
		})
		switch {
		case errors.Is(err, ErrCharacterExists):
		case err != nil:
			return inserted, fmt.Errorf("seeding %q: %w", c.ID, err)
		default:
			inserted++
		}
	}
	return inserted, nil
}

func insertCharacter(ctx context.Context, q querier, c *character.Character, skipExisting bool) error {
	talents := make([]string, 0, len(c.Talents))
	for _, t := range c.Talents {
		talents = append(talents, t.ID)
	}
	sql := `
		INSERT INTO characters
			(id, name, attributes, skills, talents, stress, health, max_health)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if skipExisting {
		sql += ` ON CONFLICT (id) DO NOTHING`
	}
	tag, err := q.Exec(ctx, sql,
		c.ID, c.Name, attributeJSON(c.Attributes), skillJSON(c.Skills), talents,
		c.Stress, c.Health, c.MaxHealth,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCharacterExists
		}
		return fmt.Errorf("inserting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterExists
	}
	return nil
}

func replaceGear(ctx context.Context, q querier, ownerID string, gear inventory.Gear) error {
	if _, err := q.Exec(ctx, `DELETE FROM items WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("clearing gear: %w", err)
	}
	for i, it := range gear {
		if it.Def == nil {
			continue
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO items (instance_id, owner_id, item_id, position, equipped, broken)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			it.InstanceID, ownerID, it.Def.ID, i, it.Equipped, it.Broken,
		); err != nil {
			return fmt.Errorf("inserting item %q: %w", it.InstanceID, err)
		}
	}
	return nil
}

func (s *RosterStore) loadGear(ctx context.Context, ownerID string) (inventory.Gear, error) {
	rows, err := s.db.Query(ctx, `
		SELECT instance_id, item_id, equipped, broken
		FROM items WHERE owner_id = $1 ORDER BY position ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing gear: %w", err)
	}
	defer rows.Close()

	var gear inventory.Gear
	for rows.Next() {
		var (
			it     inventory.Item
			itemID string
		)
		if err := rows.Scan(&it.InstanceID, &itemID, &it.Equipped, &it.Broken); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		d, ok := s.lib.Items.Item(itemID)
		if !ok {
			return nil, fmt.Errorf("owner %q: unknown item %q", ownerID, itemID)
		}
		it.Def = d
		gear = append(gear, it)
	}
	return gear, rows.Err()
}

// Character loads a player character by ID.
//
// Postcondition: Returns roster.ErrNotFound (wrapped) when no row matches. Talent IDs
// the library no longer defines are skipped with a warning.
func (s *RosterStore) Character(ctx context.Context, id string) (*character.Character, error) {
	var (
		c       = &character.Character{}
		attrs   map[string]int
		skills  map[string]int
		talents []string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, name, attributes, skills, talents, stress, health, max_health
		FROM characters WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &attrs, &skills, &talents, &c.Stress, &c.Health, &c.MaxHealth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: character %q", roster.ErrNotFound, id)
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	c.Attributes = attributesFrom(attrs)
	c.Skills = skillsFrom(skills)
	for _, tid := range talents {
		td, ok := s.lib.Talents[tid]
		if !ok {
			s.logger.Warn("skipping unknown talent", zap.String("character", id), zap.String("talent", tid))
			continue
		}
		c.Talents = append(c.Talents, td.Talent())
	}
	if c.Gear, err = s.loadGear(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// NPC loads a spawned NPC instance by ID.
//
// Postcondition: Returns roster.ErrNotFound (wrapped) when no row matches.
func (s *RosterStore) NPC(ctx context.Context, id string) (*npc.Instance, error) {
	var (
		n         = &npc.Instance{}
		attrs     map[string]int
		skills    map[string]int
		expertise map[string]string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, template_id, name, attributes, skills, expertise, stress, health, max_health
		FROM npcs WHERE id = $1`,
		id,
	).Scan(&n.ID, &n.TemplateID, &n.Name, &attrs, &skills, &expertise, &n.Stress, &n.Health, &n.MaxHealth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: npc %q", roster.ErrNotFound, id)
		}
		return nil, fmt.Errorf("querying npc: %w", err)
	}
	n.Attributes = attributesFrom(attrs)
	n.Skills = skillsFrom(skills)
	n.Expertise = make(map[skill.Skill]skill.Tier, len(expertise))
	for name, tier := range expertise {
		if sk, ok := skill.Parse(name); ok {
			n.Expertise[sk] = skill.ParseTier(tier)
		}
	}
	if n.Gear, err = s.loadGear(ctx, id); err != nil {
		return nil, err
	}
	return n, nil
}

// SpawnNPC creates an instance of templateID and stores it, replacing any NPC with
// the same ID.
func (s *RosterStore) SpawnNPC(ctx context.Context, templateID, id string) (*npc.Instance, error) {
	inst, err := s.lib.Spawn(templateID, id)
	if err != nil {
		return nil, err
	}
	expertise := make(map[string]string, len(inst.Expertise))
	for sk, tier := range inst.Expertise {
		expertise[string(sk)] = tier.String()
	}
	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO npcs
				(id, template_id, name, attributes, skills, expertise, stress, health, max_health)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (id) DO UPDATE SET
				template_id = EXCLUDED.template_id, name = EXCLUDED.name,
				attributes = EXCLUDED.attributes, skills = EXCLUDED.skills,
				expertise = EXCLUDED.expertise, stress = EXCLUDED.stress,
				health = EXCLUDED.health, max_health = EXCLUDED.max_health,
				in_cover = FALSE, updated_at = NOW()`,
			inst.ID, inst.TemplateID, inst.Name, attributeJSON(inst.Attributes), skillJSON(inst.Skills),
			expertise, inst.Stress, inst.Health, inst.MaxHealth,
		); err != nil {
			return fmt.Errorf("inserting npc: %w", err)
		}
		return replaceGear(ctx, tx, inst.ID, inst.Gear)
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// update runs an UPDATE built by stmt against characters, then npcs.
//
// Postcondition: Returns roster.ErrNotFound (wrapped) when neither table has id.
func (s *RosterStore) update(ctx context.Context, id string, stmt func(table string) string, args ...any) error {
	for _, table := range []string{"characters", "npcs"} {
		tag, err := s.db.Exec(ctx, stmt(table), append([]any{id}, args...)...)
		if err != nil {
			return fmt.Errorf("updating %s: %w", table, err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", roster.ErrNotFound, id)
}

// SetHealth sets id's health, clamped to [0, max_health].
func (s *RosterStore) SetHealth(ctx context.Context, id string, health int) error {
	return s.update(ctx, id, func(table string) string {
		return `UPDATE ` + table + ` SET health = GREATEST(0, LEAST(max_health, $2)), updated_at = NOW() WHERE id = $1`
	}, health)
}

// AddStress adds n to id's stress, flooring at 0.
func (s *RosterStore) AddStress(ctx context.Context, id string, n int) error {
	return s.update(ctx, id, func(table string) string {
		return `UPDATE ` + table + ` SET stress = GREATEST(0, stress + $2), updated_at = NOW() WHERE id = $1`
	}, n)
}

func (s *RosterStore) SetCover(ctx context.Context, id string, on bool) error {
	return s.update(ctx, id, func(table string) string {
		return `UPDATE ` + table + ` SET in_cover = $2, updated_at = NOW() WHERE id = $1`
	}, on)
}

// InCover reports the stored cover flag for id.
func (s *RosterStore) InCover(ctx context.Context, id string) (bool, error) {
	var on bool
	err := s.db.QueryRow(ctx, `
		SELECT in_cover FROM characters WHERE id = $1
		UNION ALL
		SELECT in_cover FROM npcs WHERE id = $1
		LIMIT 1`,
		id,
	).Scan(&on)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("%w: %q", roster.ErrNotFound, id)
	}
	return on, err
}

// BreakItem marks the owned item itemID of id broken.
func (s *RosterStore) BreakItem(ctx context.Context, id, itemID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE items SET broken = TRUE WHERE owner_id = $1 AND instance_id = $2`,
		id, itemID,
	)
	if err != nil {
		return fmt.Errorf("breaking item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: item %q on %q", roster.ErrNotFound, itemID, id)
	}
	return nil
}

func attributeJSON(m map[skill.Attribute]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func skillJSON(m map[skill.Skill]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}

func attributesFrom(m map[string]int) map[skill.Attribute]int {
	out := make(map[skill.Attribute]int, len(m))
	for k, v := range m {
		out[skill.Attribute(k)] = v
	}
	return out
}

func skillsFrom(m map[string]int) map[skill.Skill]int {
	out := make(map[skill.Skill]int, len(m))
	for k, v := range m {
		if sk, ok := skill.Parse(k); ok {
			out[sk] = v
		}
	}
	return out
}
