package service

import (
	"context"
	"fmt"

	"github.com/fathima-sithara/sampling-service/internal/events"
	"github.com/fathima-sithara/sampling-service/internal/metrics"
	"github.com/fathima-sithara/sampling-service/internal/models"
	"github.com/fathima-sithara/sampling-service/internal/repository"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"go.uber.org/zap"
)

type SampleService struct {
	repo        repository.SampleRepository
	pub         events.Publisher
	metrics     *metrics.Metrics
	log         *zap.SugaredLogger
	defaultUser string
}

func NewSampleService(repo repository.SampleRepository, pub events.Publisher, m *metrics.Metrics, log *zap.SugaredLogger, defaultUser string) *SampleService {
	return &SampleService{repo: repo, pub: pub, metrics: m, log: log, defaultUser: defaultUser}
}

// Create validates the timestamp, derives created_at_datetime and stores
// the sample. Nothing is written when validation fails.
func (s *SampleService) Create(ctx context.Context, in models.SampleCreate) (*models.Sample, error) {
	if in.CreatedAt == "" {
		return nil, fmt.Errorf("created_at is required: %w", utils.ErrValidation)
	}
	ts, err := models.ParseTimestamp(in.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("created_at %q: %w: %w", in.CreatedAt, utils.ErrValidation, err)
	}
	userID := in.UserID
	if userID == "" {
		userID = s.defaultUser
	}

	sample := &models.Sample{
		CreatedAt:     in.CreatedAt,
		Sentiment:     in.Sentiment,
		Activity:      in.Activity,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		VideoURI:      in.VideoURI,
		UserID:        userID,
		CreatedAtTime: ts,
	}
	if err := s.repo.Insert(ctx, sample); err != nil {
		return nil, fmt.Errorf("insert sample: %w", err)
	}
	s.metrics.SamplesCreated.Inc()
	if err := s.pub.SampleCreated(ctx, sample); err != nil {
		s.log.Warnw("publish sample.created failed", "id", sample.ID.Hex(), "error", err)
	}
	return sample, nil
}

// ListAll returns up to limit samples across all users, newest first. The
// derived created_at_datetime stays on each record; only Export strips it.
func (s *SampleService) ListAll(ctx context.Context, limit int64) ([]*models.Sample, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, "", limit)
}

// ListByUser is ListAll filtered to one user. Unlike ListAll an empty result
// is an ErrNotFound.
func (s *SampleService) ListByUser(ctx context.Context, userID string, limit int64) ([]*models.Sample, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	out, err := s.repo.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no samples found for this user: %w", utils.ErrNotFound)
	}
	return out, nil
}

// Export is ListAll without the derived timestamp. An empty store exports an
// empty document.
func (s *SampleService) Export(ctx context.Context, limit int64) ([]models.ExportRecord, error) {
	samples, err := s.ListAll(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExportRecord, 0, len(samples))
	for _, sm := range samples {
		out = append(out, sm.ExportRecord())
	}
	return out, nil
}

func (s *SampleService) HealthCheck(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w: %w", utils.ErrServiceUnavailable, err)
	}
	return nil
}

func checkLimit(limit int64) error {
	if limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d: %w", limit, utils.ErrValidation)
	}
	return nil
}
