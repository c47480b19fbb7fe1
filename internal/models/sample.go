package models

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SampleCreate is the body of POST /samples.
type SampleCreate struct {
	CreatedAt string   `json:"created_at"`
	Sentiment *int     `json:"sentiment"`
	Activity  *string  `json:"activity"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	VideoURI  *string  `json:"video_uri"`
	UserID    string   `json:"user_id"`
}

// Sample is one stored experience-sampling record. CreatedAtTime is derived
// from CreatedAt at write time and only used for ordering.
type Sample struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     string             `bson:"created_at" json:"created_at"`
	Sentiment     *int               `bson:"sentiment" json:"sentiment"`
	Activity      *string            `bson:"activity" json:"activity"`
	Latitude      *float64           `bson:"latitude" json:"latitude"`
	Longitude     *float64           `bson:"longitude" json:"longitude"`
	VideoURI      *string            `bson:"video_uri" json:"video_uri"`
	UserID        string             `bson:"user_id" json:"user_id"`
	CreatedAtTime time.Time          `bson:"created_at_datetime" json:"created_at_datetime"`
}

// ExportRecord is a Sample without the derived timestamp.
type ExportRecord struct {
	ID        string   `json:"id" yaml:"id"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
	Sentiment *int     `json:"sentiment" yaml:"sentiment"`
	Activity  *string  `json:"activity" yaml:"activity"`
	Latitude  *float64 `json:"latitude" yaml:"latitude"`
	Longitude *float64 `json:"longitude" yaml:"longitude"`
	VideoURI  *string  `json:"video_uri" yaml:"video_uri"`
	UserID    string   `json:"user_id" yaml:"user_id"`
}

func (s *Sample) ExportRecord() ExportRecord {
	return ExportRecord{
		ID:        s.ID.Hex(),
		CreatedAt: s.CreatedAt,
		Sentiment: s.Sentiment,
		Activity:  s.Activity,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		VideoURI:  s.VideoURI,
		UserID:    s.UserID,
	}
}

var ErrBadTimestamp = errors.New("not an ISO-8601 timestamp")

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	// basic format
	"20060102T150405.999999999Z07:00",
	"20060102T150405.999999999Z0700",
	"20060102T150405.999999999",
	"20060102T1504Z07:00",
	"20060102T1504",
	"20060102",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 shapes the mobile client sends: with
// or without an offset, "T" or space separated, or a bare date. Values
// without an offset are taken as UTC. The result is always UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}
