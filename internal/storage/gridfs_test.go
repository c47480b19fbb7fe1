package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/testutil"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridFSStore(t *testing.T) {
	db := testutil.StartMongo(t)
	ctx := context.Background()
	store, err := NewGridFSStore(db, "videos")
	require.NoError(t, err)
	require.NoError(t, store.EnsureIndexes(ctx))

	// spans several chunks
	content := make([]byte, 3*gridChunkSize+17)
	_, err = rand.Read(content)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		v, err := store.Upload(ctx, "u1", "a.mp4", "video/mp4", bytes.NewReader(content))
		require.NoError(t, err)
		assert.NotEmpty(t, v.ID)
		assert.Equal(t, int64(len(content)), v.SizeBytes)

		got, rc, err := store.Download(ctx, "u1", "a.mp4")
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, content, data)
		assert.Equal(t, v.ID, got.ID)
		assert.Equal(t, "video/mp4", got.ContentType)
		assert.True(t, v.UploadedAt.Equal(got.UploadedAt), "upload reported %s, store has %s", v.UploadedAt, got.UploadedAt)
		assert.Equal(t, v.SizeBytes, got.SizeBytes)
	})

	t.Run("miss", func(t *testing.T) {
		_, _, err := store.Download(ctx, "u1", "missing.mp4")
		assert.ErrorIs(t, err, utils.ErrNotFound)
		_, _, err = store.Download(ctx, "u2", "a.mp4")
		assert.ErrorIs(t, err, utils.ErrNotFound)
	})

	t.Run("duplicate pair resolves to latest", func(t *testing.T) {
		_, err := store.Upload(ctx, "u3", "dup.mp4", "video/mp4", bytes.NewReader([]byte("first")))
		require.NoError(t, err)
		// uploadDate has millisecond resolution
		time.Sleep(10 * time.Millisecond)
		second, err := store.Upload(ctx, "u3", "dup.mp4", "video/mp4", bytes.NewReader([]byte("second")))
		require.NoError(t, err)

		got, rc, err := store.Download(ctx, "u3", "dup.mp4")
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "second", string(data))
		assert.Equal(t, second.ID, got.ID)
	})

	t.Run("failed upload leaves nothing", func(t *testing.T) {
		r := io.MultiReader(bytes.NewReader(content[:gridChunkSize+1]), failingReader{})
		_, err := store.Upload(ctx, "u4", "broken.mp4", "video/mp4", r)
		assert.ErrorIs(t, err, utils.ErrStorage)

		_, _, err = store.Download(ctx, "u4", "broken.mp4")
		assert.ErrorIs(t, err, utils.ErrNotFound)
		n, err := db.Collection("videos.chunks").CountDocuments(ctx, map[string]any{})
		require.NoError(t, err)
		// only the chunks of the successful uploads above remain
		assert.Equal(t, int64(4+1+1), n)
	})

	t.Run("list", func(t *testing.T) {
		videos, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, videos, 3)
		for i := 1; i < len(videos); i++ {
			assert.False(t, videos[i].UploadedAt.After(videos[i-1].UploadedAt))
		}
		assert.Equal(t, "dup.mp4", videos[0].Filename)
		assert.Equal(t, "u3", videos[0].UserID)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
