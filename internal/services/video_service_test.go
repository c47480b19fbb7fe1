package service

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/fathima-sithara/sampling-service/internal/events"
	"github.com/fathima-sithara/sampling-service/internal/metrics"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newVideoService() (*VideoService, *metrics.Metrics) {
	m := metrics.New()
	return NewVideoService(&memVideoStore{}, events.Nop(), m, zap.NewNop().Sugar(), "default_user"), m
}

func TestVideoRoundTrip(t *testing.T) {
	svc, m := newVideoService()
	ctx := context.Background()
	content := []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0xff}

	v, err := svc.Upload(ctx, "u1", "a.mp4", "video/mp4", bytes.NewReader(content))
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VideosUploaded))
	assert.Equal(t, float64(len(content)), testutil.ToFloat64(m.VideoBytes))

	got, rc, err := svc.Download(ctx, "u1", "a.mp4")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, v.ID, got.ID)
}

func TestVideoDownloadMiss(t *testing.T) {
	svc, _ := newVideoService()
	_, _, err := svc.Download(context.Background(), "u1", "a.mp4")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestVideoUploadNormalizes(t *testing.T) {
	svc, _ := newVideoService()
	ctx := context.Background()

	v, err := svc.Upload(ctx, "", "clip.mov", "application/octet-stream", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "default_user", v.UserID)
	assert.Equal(t, "video/mp4", v.ContentType)

	v, err = svc.Upload(ctx, "u1", "clip.mov", "video/quicktime", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.Equal(t, "video/quicktime", v.ContentType)

	_, err = svc.Upload(ctx, "u1", "", "video/mp4", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestVideoListNewestFirst(t *testing.T) {
	svc, _ := newVideoService()
	ctx := context.Background()
	for _, name := range []string{"a.mp4", "b.mp4", "a.mp4"} {
		_, err := svc.Upload(ctx, "u1", name, "video/mp4", bytes.NewReader([]byte(name)))
		require.NoError(t, err)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a.mp4", list[0].Filename)
	assert.True(t, list[0].UploadedAt.After(list[1].UploadedAt))
}
