package events

import (
	"context"

	"go.uber.org/zap"
)

// LogSink writes messages to a zap logger at info level.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink.
//
// Precondition: logger must be non-nil.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Publish logs m.
func (s *LogSink) Publish(_ context.Context, m Message) error {
	fields := []zap.Field{
		zap.String("session", m.SessionID),
		zap.String("kind", m.Kind),
	}
	if m.ActorID != "" {
		fields = append(fields, zap.String("actor", m.ActorID))
	}
	if m.TargetID != "" {
		fields = append(fields, zap.String("target", m.TargetID))
	}
	if m.Roll != nil {
		fields = append(fields, zap.Int("successes", m.Roll.Successes), zap.Bool("messed_up", m.Roll.MessedUp))
	}
	s.logger.Info(m.Text, fields...)
	return nil
}
