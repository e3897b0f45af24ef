package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/rinex-station-meta/internal/config"
	"github.com/couchcryptid/rinex-station-meta/internal/domain"
	"github.com/couchcryptid/rinex-station-meta/internal/report"
)

// Message kinds carried in the "kind" header.
const (
	KindStation         = "station"
	KindCombinedPeriod  = "combined_period"
	KindEquipmentPeriod = "equipment_period"
)

// A failed write is tried publishAttempts times in total, with a doubling
// backoff between attempts.
const (
	publishAttempts   = 3
	initialBackoff    = 200 * time.Millisecond
	maxPublishBackoff = 5 * time.Second
)

// messageWriter is the subset of *kafkago.Writer the Publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces the station records and observation periods of a run to
// a Kafka topic. It implements pipeline.Publisher.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	backoff time.Duration
}

// NewPublisher creates a Kafka producer for the configured topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, backoff: initialBackoff}
}

// Publish serializes every station and period of snap and writes them in a
// single WriteMessages call. Messages are keyed by station so all messages of
// one station land on the same partition.
func (p *Publisher) Publish(ctx context.Context, runID string, snap report.Snapshot) (int, error) {
	msgs, err := buildMessages(runID, snap)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}
	if err := p.write(ctx, runID, msgs); err != nil {
		return 0, fmt.Errorf("publish %d messages: %w", len(msgs), err)
	}
	p.logger.Debug("snapshot published", "run_id", runID, "messages", len(msgs))
	return len(msgs), nil
}

func (p *Publisher) write(ctx context.Context, runID string, msgs []kafkago.Message) error {
	backoff := p.backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = p.writer.WriteMessages(ctx, msgs...); err == nil {
			return nil
		}
		if attempt == publishAttempts || ctx.Err() != nil {
			return err
		}
		p.logger.Warn("publish failed, retrying",
			"run_id", runID, "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return err
		}
		backoff = retry.NextBackoff(backoff, maxPublishBackoff)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func buildMessages(runID string, snap report.Snapshot) ([]kafkago.Message, error) {
	msgs := make([]kafkago.Message, 0, len(snap.Stations)+len(snap.Combined)+len(snap.Equipment))
	for _, rec := range snap.Stations {
		msg, err := serializeToMessage(runID, KindStation, rec.Key(), rec)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	for _, set := range []struct {
		kind    string
		periods []domain.ObservationPeriod
	}{
		{KindCombinedPeriod, snap.Combined},
		{KindEquipmentPeriod, snap.Equipment},
	} {
		for _, period := range set.periods {
			msg, err := serializeToMessage(runID, set.kind, period.Station.Key(), period)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, msg)
		}
	}
	return msgs, nil
}

// serializeToMessage marshals a record or period into a Kafka message.
func serializeToMessage(runID, kind string, key domain.StationKey, v any) (kafkago.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s %s: %w", kind, key, err)
	}
	return kafkago.Message{
		Key:   []byte(key.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "kind", Value: []byte(kind)},
		},
	}, nil
}
