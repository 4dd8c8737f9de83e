package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/events"
	"github.com/cory-johannsen/survivors/internal/game/combat"
	"github.com/cory-johannsen/survivors/internal/game/npc"
	"github.com/cory-johannsen/survivors/internal/roster"
)

type entry struct {
	state State
	// last is the most recent phase key resolved in the current brawl.
	last combat.PhaseKey
}

// Manager is the single writer for every open session.
type Manager struct {
	mu       sync.Mutex
	env      Env
	store    roster.Store
	sink     events.Sink
	logger   *zap.Logger
	sessions map[string]*entry
}

// NewManager creates a Manager. env.Actors is ignored; snapshots are loaded from
// store for every dispatch.
//
// Precondition: env resolvers, store, sink and logger must be non-nil.
func NewManager(env Env, store roster.Store, sink events.Sink, logger *zap.Logger) *Manager {
	env.Actors = nil
	return &Manager{
		env:      env,
		store:    store,
		sink:     sink,
		logger:   logger,
		sessions: make(map[string]*entry),
	}
}

// Open starts a new idle session and returns its ID.
func (m *Manager) Open(solo bool) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New().String()
	m.sessions[id] = &entry{state: NewState(id, solo)}
	m.logger.Info("session opened", zap.String("session", id), zap.Bool("solo", solo))
	return id
}

// Close forgets session id.
//
// Postcondition: Returns ErrUnknownSession when id is not open.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	delete(m.sessions, id)
	m.logger.Info("session closed", zap.String("session", id))
	return nil
}

// State returns a copy of session id's state.
func (m *Manager) State(id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return State{}, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return e.state.clone(), nil
}

// Sessions returns the IDs of every open session in sorted order.
func (m *Manager) Sessions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Spawn creates a live NPC from a content template so it can join a brawl.
func (m *Manager) Spawn(ctx context.Context, templateID, id string) (*npc.Instance, error) {
	n, err := m.store.SpawnNPC(ctx, templateID, id)
	if err != nil {
		return nil, err
	}
	m.logger.Info("npc spawned", zap.String("template", templateID), zap.String("npc", n.ID))
	return n, nil
}

// Dispatch reduces act into session id: it loads the snapshots act needs, reduces,
// commits the new state, writes the deltas back to the roster and then publishes the
// messages.
//
// A ResolvePhase whose key was already resolved, or is not the current phase, is
// dropped silently and returns no messages.
//
// Postcondition: a rejected action leaves the state unchanged and returns its
// explanation as a KindRejected message with a nil error. A non-nil error reports a
// roster or sink failure; the state is still committed when only the write-back or
// publish failed.
func (m *Manager) Dispatch(ctx context.Context, id string, act Action) ([]events.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	log := m.logger.With(zap.String("session", id), zap.String("action", act.Name()))

	if rp, ok := act.(ResolvePhase); ok {
		if b := e.state.Brawl; b != nil && rp.Key == (combat.PhaseKey{}) {
			rp.Key = b.Key()
			act = rp
		}
		if m.duplicate(e, rp.Key) {
			log.Debug("duplicate phase resolution ignored",
				zap.Int("round", rp.Key.Round), zap.Stringer("phase", rp.Key.Phase))
			return nil, nil
		}
	}

	actors, err := roster.Actors(ctx, m.store, act.Involves(e.state)...)
	if err != nil {
		return nil, fmt.Errorf("loading actors: %w", err)
	}
	env := m.env
	env.Actors = actors

	next, msgs, deltas := Reduce(env, e.state, act)
	rejected := len(msgs) == 1 && msgs[0].Kind == KindRejected
	if rejected {
		log.Debug("action rejected", zap.String("reason", msgs[0].Text))
	} else {
		switch a := act.(type) {
		case StartBrawl:
			e.last = combat.PhaseKey{}
		case ResolvePhase:
			e.last = a.Key
		}
		e.state = next
		log.Debug("action applied", zap.Int("messages", len(msgs)), zap.Int("deltas", len(deltas)))
	}

	var errs []error
	if err := roster.Apply(ctx, m.store, deltas); err != nil {
		log.Error("applying deltas", zap.Error(err))
		errs = append(errs, err)
	}
	for _, msg := range msgs {
		if err := m.sink.Publish(ctx, msg); err != nil {
			log.Error("publishing message", zap.String("kind", msg.Kind), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return msgs, errors.Join(errs...)
}

// duplicate reports whether a resolution for key must be dropped: it was the last key
// resolved, or a brawl is under way and key is not its current phase.
func (m *Manager) duplicate(e *entry, key combat.PhaseKey) bool {
	if key == (combat.PhaseKey{}) {
		return false
	}
	if key == e.last {
		return true
	}
	return e.state.Brawl != nil && key != e.state.Brawl.Key()
}
