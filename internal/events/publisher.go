package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type SampleCreatedEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CreatedAt  string    `json:"created_at"`
	HasVideo   bool      `json:"has_video"`
	OccurredAt time.Time `json:"occurred_at"`
}

type VideoUploadedEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher announces writes to downstream consumers. Delivery is best
// effort and never fails the write that triggered it.
type Publisher interface {
	SampleCreated(ctx context.Context, s *models.Sample) error
	VideoUploaded(ctx context.Context, v *models.Video) error
	Close() error
}

type nopPublisher struct{}

func (nopPublisher) SampleCreated(context.Context, *models.Sample) error { return nil }
func (nopPublisher) VideoUploaded(context.Context, *models.Video) error  { return nil }
func (nopPublisher) Close() error                                        { return nil }

// Nop returns a Publisher that drops every event.
func Nop() Publisher { return nopPublisher{} }

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type KafkaPublisher struct {
	samples kafkaWriter
	videos  kafkaWriter
	now     func() time.Time
}

// NewPublisher returns a Kafka backed Publisher, or Nop when no brokers are
// configured.
func NewPublisher(brokers []string, sampleTopic, videoTopic string, log *zap.SugaredLogger) Publisher {
	if len(brokers) == 0 {
		return Nop()
	}
	return &KafkaPublisher{
		samples: newWriter(brokers, sampleTopic, log),
		videos:  newWriter(brokers, videoTopic, log),
		now:     time.Now,
	}
}

func newWriter(brokers []string, topic string, log *zap.SugaredLogger) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafkago.Message, err error) {
			if err != nil {
				log.Warnw("event delivery failed", "topic", topic, "count", len(msgs), "error", err)
			}
		},
	}
}

func (p *KafkaPublisher) SampleCreated(ctx context.Context, s *models.Sample) error {
	ev := SampleCreatedEvent{
		ID:         s.ID.Hex(),
		UserID:     s.UserID,
		CreatedAt:  s.CreatedAt,
		HasVideo:   s.VideoURI != nil && *s.VideoURI != "",
		OccurredAt: p.now().UTC(),
	}
	return publish(ctx, p.samples, s.UserID, ev)
}

func (p *KafkaPublisher) VideoUploaded(ctx context.Context, v *models.Video) error {
	ev := VideoUploadedEvent{
		ID:         v.ID,
		UserID:     v.UserID,
		Filename:   v.Filename,
		SizeBytes:  v.SizeBytes,
		OccurredAt: p.now().UTC(),
	}
	return publish(ctx, p.videos, v.UserID, ev)
}

// keyed by user so one user's events stay ordered within a partition
func publish(ctx context.Context, w kafkaWriter, key string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafkago.Message{Key: []byte(key), Value: b, Time: time.Now()})
}

func (p *KafkaPublisher) Close() error {
	err := p.samples.Close()
	if verr := p.videos.Close(); err == nil {
		err = verr
	}
	return err
}
