package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/frontdesk/internal/logger"
	"github.com/mark3labs/frontdesk/internal/registration"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "frontdesk_registrations"
	subjectPrefix = "frontdesk.registrations"
	retention     = 90 * 24 * time.Hour
)

// SubjectForRegistration returns the subject a registration is published on.
// Example: "frontdesk.registrations.6f1c..."
func SubjectForRegistration(id string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, id)
}

// SetupStream creates or updates the registrations stream.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
}

// Publisher appends completed registrations to the stream.
type Publisher struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewPublisher sets up the stream on js and returns a publisher for it.
func NewPublisher(ctx context.Context, js jetstream.JetStream) (*Publisher, error) {
	stream, err := SetupStream(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("failed to set up registrations stream: %w", err)
	}
	return &Publisher{js: js, stream: stream}, nil
}

// Publish sends r to its subject. The registration id is used as the
// message id so a retried publish is deduplicated by the server.
func (p *Publisher) Publish(ctx context.Context, r *registration.Registration) (*jetstream.PubAck, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration: %w", err)
	}

	subject := SubjectForRegistration(r.ID)
	logger.Debug("Publishing registration %s to %s", r.ID, subject)

	ack, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(r.ID))
	if err != nil {
		logger.Error("Failed to publish registration to %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish registration: %w", err)
	}
	logger.Debug("Registration published: seq=%d duplicate=%v", ack.Sequence, ack.Duplicate)
	return ack, nil
}

// Replay reads every registration in the stream, oldest first. Malformed
// messages are skipped.
func (p *Publisher) Replay(ctx context.Context) ([]*registration.Registration, error) {
	consumer, err := p.stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	info, err := p.stream.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream info: %w", err)
	}
	remaining := int(info.State.Msgs)

	var regs []*registration.Registration
	const batchSize = 256
	for remaining > 0 {
		msgs, err := consumer.FetchNoWait(min(batchSize, remaining))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch registrations: %w", err)
		}

		n := 0
		for msg := range msgs.Messages() {
			n++
			var r registration.Registration
			if err := json.Unmarshal(msg.Data(), &r); err != nil {
				logger.Warn("Skipping malformed registration on %s: %v", msg.Subject(), err)
				continue
			}
			regs = append(regs, &r)
		}
		if err := msgs.Error(); err != nil {
			return nil, fmt.Errorf("failed to fetch registrations: %w", err)
		}
		if n == 0 {
			break
		}
		remaining -= n
	}
	return regs, nil
}
