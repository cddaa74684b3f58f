package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// DefaultGroup is the queue group shared by process workers, so each
// notification is handled by one worker.
const DefaultGroup = "process-workers"

// NewNATS constructs a queue-group subscriber on subject.
func NewNATS(log *slog.Logger, nc *nats.Conn, subject, group string) Subscriber {
	if group == "" {
		group = DefaultGroup
	}
	return &natsSubscriber{log: log, nc: nc, subject: subject, group: group}
}

type natsSubscriber struct {
	log     *slog.Logger
	nc      *nats.Conn
	subject string
	group   string
}

func (s *natsSubscriber) Listen(ctx context.Context, handler Handler) error {
	if s.subject == "" {
		return errors.New("notify subject required")
	}
	sub, err := s.nc.QueueSubscribe(s.subject, s.group, func(msg *nats.Msg) {
		s.handleMessage(ctx, msg, handler)
	})
	if err != nil {
		return err
	}
	s.log.Info("listening for object notifications", "subject", s.subject, "group", s.group)
	<-ctx.Done()
	return sub.Unsubscribe()
}

// handleMessage runs handler once. Failures are logged and the message is
// dropped; duplicates and redeliveries are the publisher's concern.
func (s *natsSubscriber) handleMessage(ctx context.Context, msg *nats.Msg, handler Handler) {
	if err := handler(ctx, msg.Data); err != nil {
		s.log.Error("notification handler failed", "subject", msg.Subject, "err", err)
	}
}
