package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	"github.com/fathima-sithara/sampling-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoSampleRepoAgainstMongo(t *testing.T) {
	db := testutil.StartMongo(t)
	ctx := context.Background()
	col := db.Collection("samples")
	require.NoError(t, EnsureSampleIndexes(ctx, col))
	repo := NewMongoSampleRepo(db, "samples")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// inserted out of order so ordering has to come from the query
	for _, in := range []struct {
		user string
		hour int
	}{
		{"alice", 2}, {"bob", 5}, {"alice", 7}, {"alice", 1}, {"bob", 3},
	} {
		ts := base.Add(time.Duration(in.hour) * time.Hour)
		require.NoError(t, repo.Insert(ctx, &models.Sample{
			CreatedAt:     ts.Format(time.RFC3339),
			UserID:        in.user,
			CreatedAtTime: ts,
		}))
	}

	t.Run("all newest first", func(t *testing.T) {
		out, err := repo.List(ctx, "", 100)
		require.NoError(t, err)
		require.Len(t, out, 5)
		for i := 1; i < len(out); i++ {
			assert.False(t, out[i].CreatedAtTime.After(out[i-1].CreatedAtTime))
		}
		assert.True(t, base.Add(7*time.Hour).Equal(out[0].CreatedAtTime))
	})

	t.Run("by user is filtered", func(t *testing.T) {
		out, err := repo.List(ctx, "alice", 100)
		require.NoError(t, err)
		require.Len(t, out, 3)
		for _, s := range out {
			assert.Equal(t, "alice", s.UserID)
		}
		assert.True(t, base.Add(7*time.Hour).Equal(out[0].CreatedAtTime))
		assert.True(t, base.Add(1*time.Hour).Equal(out[2].CreatedAtTime))
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		out, err := repo.List(ctx, "", 2)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.True(t, base.Add(7*time.Hour).Equal(out[0].CreatedAtTime))
		assert.True(t, base.Add(5*time.Hour).Equal(out[1].CreatedAtTime))
	})

	t.Run("unknown user is empty", func(t *testing.T) {
		out, err := repo.List(ctx, "carol", 100)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestVideoRepoAgainstMongo(t *testing.T) {
	db := testutil.StartMongo(t)
	ctx := context.Background()
	repo := NewVideoRepo(db.Collection("videos_meta"))
	require.NoError(t, repo.EnsureIndexes(ctx))

	older := &models.Video{ID: "a1", UserID: "u1", Filename: "clip.mp4", Key: "u1/a1_clip.mp4", UploadedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &models.Video{ID: "a2", UserID: "u1", Filename: "clip.mp4", Key: "u1/a2_clip.mp4", UploadedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))

	v, err := repo.FindLatest(ctx, "u1", "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "a2", v.ID)

	_, err = repo.FindLatest(ctx, "u2", "clip.mp4")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a2", all[0].ID)
}
