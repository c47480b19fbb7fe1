package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordingWriter struct {
	msgs   []kafkago.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewPublisherWithoutBrokersIsNop(t *testing.T) {
	p := NewPublisher(nil, "sample.created", "video.uploaded", zap.NewNop().Sugar())
	assert.Equal(t, Nop(), p)
	assert.NoError(t, p.SampleCreated(context.Background(), &models.Sample{}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisherPayloads(t *testing.T) {
	samples, videos := &recordingWriter{}, &recordingWriter{}
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p := &KafkaPublisher{samples: samples, videos: videos, now: func() time.Time { return fixed }}
	ctx := context.Background()

	uri := "file:///clip.mp4"
	s := &models.Sample{ID: primitive.NewObjectID(), CreatedAt: "2024-05-01T09:00:00Z", UserID: "alice", VideoURI: &uri}
	require.NoError(t, p.SampleCreated(ctx, s))
	require.Len(t, samples.msgs, 1)
	assert.Equal(t, "alice", string(samples.msgs[0].Key))

	var sev SampleCreatedEvent
	require.NoError(t, json.Unmarshal(samples.msgs[0].Value, &sev))
	assert.Equal(t, s.ID.Hex(), sev.ID)
	assert.True(t, sev.HasVideo)
	assert.True(t, fixed.Equal(sev.OccurredAt))

	v := &models.Video{ID: "abc", UserID: "bob", Filename: "a.mp4", SizeBytes: 10}
	require.NoError(t, p.VideoUploaded(ctx, v))
	require.Len(t, videos.msgs, 1)
	var vev VideoUploadedEvent
	require.NoError(t, json.Unmarshal(videos.msgs[0].Value, &vev))
	assert.Equal(t, "a.mp4", vev.Filename)
	assert.Equal(t, int64(10), vev.SizeBytes)

	require.NoError(t, p.Close())
	assert.True(t, samples.closed)
	assert.True(t, videos.closed)
}
