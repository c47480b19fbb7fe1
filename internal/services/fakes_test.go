package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memSampleRepo struct {
	mu      sync.Mutex
	samples []*models.Sample
	pingErr error
}

func (r *memSampleRepo) Insert(_ context.Context, s *models.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	cp := *s
	r.samples = append(r.samples, &cp)
	return nil
}

func (r *memSampleRepo) List(_ context.Context, userID string, limit int64) ([]*models.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Sample, 0)
	for _, s := range r.samples {
		if userID == "" || s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAtTime.After(out[j].CreatedAtTime) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSampleRepo) Ping(context.Context) error { return r.pingErr }

type memVideo struct {
	meta *models.Video
	data []byte
}

type memVideoStore struct {
	mu     sync.Mutex
	videos []memVideo
	clock  time.Time
}

func (s *memVideoStore) Upload(_ context.Context, userID, filename, contentType string, r io.Reader) (*models.Video, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(utils.ErrStorage, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	v := &models.Video{
		ID: primitive.NewObjectID().Hex(), UserID: userID, Filename: filename,
		ContentType: contentType, SizeBytes: int64(len(data)), UploadedAt: s.clock,
	}
	s.videos = append(s.videos, memVideo{meta: v, data: data})
	return v, nil
}

func (s *memVideoStore) Download(_ context.Context, userID, filename string) (*models.Video, io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.videos) - 1; i >= 0; i-- {
		v := s.videos[i]
		if v.meta.UserID == userID && v.meta.Filename == filename {
			return v.meta, io.NopCloser(bytes.NewReader(v.data)), nil
		}
	}
	return nil, nil, utils.ErrNotFound
}

func (s *memVideoStore) List(context.Context) ([]*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Video, 0, len(s.videos))
	for i := len(s.videos) - 1; i >= 0; i-- {
		out = append(out, s.videos[i].meta)
	}
	return out, nil
}
