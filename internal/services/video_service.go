package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fathima-sithara/sampling-service/internal/events"
	"github.com/fathima-sithara/sampling-service/internal/metrics"
	"github.com/fathima-sithara/sampling-service/internal/models"
	"github.com/fathima-sithara/sampling-service/internal/storage"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"go.uber.org/zap"
)

type VideoService struct {
	store       storage.VideoStore
	pub         events.Publisher
	metrics     *metrics.Metrics
	log         *zap.SugaredLogger
	defaultUser string
}

func NewVideoService(store storage.VideoStore, pub events.Publisher, m *metrics.Metrics, log *zap.SugaredLogger, defaultUser string) *VideoService {
	return &VideoService{store: store, pub: pub, metrics: m, log: log, defaultUser: defaultUser}
}

// Upload stores r under (userID, filename). The filename is kept as supplied;
// a second upload of the same pair shadows the first for downloads.
func (s *VideoService) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*models.Video, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename is required: %w", utils.ErrValidation)
	}
	if userID == "" {
		userID = s.defaultUser
	}
	if !strings.HasPrefix(contentType, "video/") {
		contentType = models.DefaultVideoContentType
	}

	v, err := s.store.Upload(ctx, userID, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	s.metrics.VideosUploaded.Inc()
	s.metrics.VideoBytes.Add(float64(v.SizeBytes))
	if err := s.pub.VideoUploaded(ctx, v); err != nil {
		s.log.Warnw("publish video.uploaded failed", "id", v.ID, "error", err)
	}
	return v, nil
}

func (s *VideoService) Download(ctx context.Context, userID, filename string) (*models.Video, io.ReadCloser, error) {
	return s.store.Download(ctx, userID, filename)
}

func (s *VideoService) List(ctx context.Context) ([]*models.Video, error) {
	return s.store.List(ctx)
}
