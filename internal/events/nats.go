package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is the subject messages are published on when none is configured.
const DefaultSubject = "survivors.events"

// NATSSink publishes messages as JSON on a NATS subject. Each message goes to
// "<subject>.<session id>" so subscribers can follow one session or all of them.
type NATSSink struct {
	nc      *nats.Conn
	subject string
}

// NewNATSSink connects to url.
//
// Postcondition: Returns a connected sink or a non-nil error.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	nc, err := nats.Connect(url, nats.Name("survivors"))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSSink{nc: nc, subject: subject}, nil
}

// Subject returns the subject m is published on.
func (s *NATSSink) Subject(m Message) string {
	if m.SessionID == "" {
		return s.subject
	}
	return s.subject + "." + m.SessionID
}

// Publish marshals m and publishes it, flushing before ctx expires.
func (s *NATSSink) Publish(ctx context.Context, m Message) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	if err := s.nc.Publish(s.Subject(m), data); err != nil {
		return fmt.Errorf("publishing to %s: %w", s.Subject(m), err)
	}
	if err := s.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flushing NATS: %w", err)
	}
	return nil
}

// Close drains and closes the connection.
func (s *NATSSink) Close() error {
	return s.nc.Drain()
}

// StartEmbeddedServer runs an in-process NATS server on a random port for local play
// without external infrastructure.
//
// Postcondition: Returns a server ready for connections or a non-nil error.
func StartEmbeddedServer(logger *zap.Logger) (*server.Server, error) {
	ns, err := server.NewServer(&server.Options{Port: -1, NoSigs: true})
	if err != nil {
		return nil, fmt.Errorf("creating embedded NATS server: %w", err)
	}
	ns.SetLogger(natsLogger{logger.Sugar().Named("nats")}, false, false)
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
	}
	logger.Info("embedded NATS server started", zap.String("url", ns.ClientURL()))
	return ns, nil
}

// natsLogger adapts zap to the NATS server logger interface.
type natsLogger struct {
	s *zap.SugaredLogger
}

func (l natsLogger) Noticef(format string, v ...any) { l.s.Infof(format, v...) }
func (l natsLogger) Warnf(format string, v ...any)   { l.s.Warnf(format, v...) }
func (l natsLogger) Fatalf(format string, v ...any)  { l.s.Errorf(format, v...) }
func (l natsLogger) Errorf(format string, v ...any)  { l.s.Errorf(format, v...) }
func (l natsLogger) Debugf(format string, v ...any)  { l.s.Debugf(format, v...) }
func (l natsLogger) Tracef(format string, v ...any)  { l.s.Debugf(format, v...) }
