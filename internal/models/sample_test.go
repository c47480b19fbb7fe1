package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-01-01T00:00:00Z",
		"2024-01-01T00:00:00+00:00",
		"2024-01-01T08:00:00+08:00",
		"2024-01-01T00:00:00.000Z",
		"2024-01-01T00:00:00",
		"2024-01-01 00:00:00",
		"2024-01-01",
		"2024-01-01T00:00Z",
		"2024-01-01T08:00+08:00",
		"2024-01-01T08:00:00+0800",
		"2024-01-01T08:00:00.000+0800",
		"2024-01-01T08:00:00+08",
		"2024-01-01 08:00+08:00",
		"2024-01-01 00:00",
		"20240101T000000Z",
		"20240101T080000+0800",
		"20240101T0000",
		"20240101",
	} {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParseTimestampRejects(t *testing.T) {
	for _, in := range []string{"", "yesterday", "01/02/2024", "2024-13-01T00:00:00Z", "1704067200", "2024-01-01T25:00Z", "2024-01-01T00:00:00+08:00junk"} {
		_, err := ParseTimestamp(in)
		assert.ErrorIs(t, err, ErrBadTimestamp, in)
	}
}

func TestSampleJSONShape(t *testing.T) {
	id := primitive.NewObjectID()
	s := Sample{ID: id, CreatedAt: "2024-01-01T00:00:00Z", UserID: "alice", CreatedAtTime: time.Unix(0, 0).UTC()}

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, id.Hex(), m["id"])
	assert.Contains(t, m, "created_at_datetime")
	assert.Nil(t, m["sentiment"])

	rec := s.ExportRecord()
	b, err = json.Marshal(rec)
	require.NoError(t, err)
	m = nil
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "created_at_datetime")
	assert.Equal(t, id.Hex(), m["id"])
}
