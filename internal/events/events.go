// Package events carries narrative messages out of a session: to the log, to NATS
// subscribers, and to in-memory recorders for tests.
package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/survivors/internal/game/dice"
)

// Message is one narrative line plus its structured payload.
type Message struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	Kind      string           `json:"kind"`
	ActorID   string           `json:"actor_id,omitempty"`
	TargetID  string           `json:"target_id,omitempty"`
	Text      string           `json:"text"`
	Roll      *dice.RollResult `json:"roll,omitempty"`
	At        time.Time        `json:"at"`
}

// New returns a Message with a fresh ID and the current time.
func New(sessionID, kind, text string) Message {
	return Message{ID: uuid.New().String(), SessionID: sessionID, Kind: kind, Text: text, At: time.Now().UTC()}
}

// Sink receives messages. Implementations must be safe for concurrent use.
type Sink interface {
	Publish(ctx context.Context, m Message) error
}

// Multi fans each message out to every sink.
type Multi []Sink

// Publish delivers m to every sink and joins their errors.
func (ms Multi) Publish(ctx context.Context, m Message) error {
	var errs []error
	for _, s := range ms {
		if err := s.Publish(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recorder keeps every published message in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

// Publish records m.
func (r *Recorder) Publish(_ context.Context, m Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}

// Texts returns the Text of every recorded message.
func (r *Recorder) Texts() []string {
	msgs := r.Messages()
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Text
	}
	return out
}

// Reset discards everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = nil
}
