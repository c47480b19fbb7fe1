package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// chunk size for both the GridFS chunks and the copy buffer
const gridChunkSize = 255 * 1024

type videoMetadata struct {
	UserID      string `bson:"userId"`
	Filename    string `bson:"filename"`
	ContentType string `bson:"contentType"`
}

// gridFile is a document of <bucket>.files.
type gridFile struct {
	ID         primitive.ObjectID `bson:"_id"`
	Length     int64              `bson:"length"`
	UploadDate time.Time          `bson:"uploadDate"`
	Filename   string             `bson:"filename"`
	Metadata   videoMetadata      `bson:"metadata"`
}

func (f *gridFile) video() *models.Video {
	ct := f.Metadata.ContentType
	if ct == "" {
		ct = models.DefaultVideoContentType
	}
	return &models.Video{
		ID:          f.ID.Hex(),
		UserID:      f.Metadata.UserID,
		Filename:    f.Filename,
		ContentType: ct,
		SizeBytes:   f.Length,
		UploadedAt:  f.UploadDate.UTC(),
	}
}

type GridFSStore struct {
	bucket *gridfs.Bucket
	files  *mongo.Collection
}

func NewGridFSStore(db *mongo.Database, bucketName string) (*GridFSStore, error) {
	b, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName).SetChunkSizeBytes(gridChunkSize))
	if err != nil {
		return nil, err
	}
	return &GridFSStore{bucket: b, files: db.Collection(bucketName + ".files")}, nil
}

// EnsureIndexes adds the metadata lookup index to the files collection.
func (s *GridFSStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.files.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "metadata.userId", Value: 1},
			{Key: "filename", Value: 1},
			{Key: "uploadDate", Value: -1},
		},
		Options: options.Index().SetName("user_filename_idx"),
	})
	return err
}

func (s *GridFSStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*models.Video, error) {
	meta := videoMetadata{UserID: userID, Filename: filename, ContentType: contentType}
	us, err := s.bucket.OpenUploadStream(filename, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return nil, fmt.Errorf("open upload stream: %w: %w", utils.ErrStorage, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = us.SetWriteDeadline(dl)
	}

	n, err := io.CopyBuffer(us, contextReader{ctx: ctx, r: r}, make([]byte, gridChunkSize))
	if err != nil {
		// drop the chunks already written
		_ = us.Abort()
		return nil, fmt.Errorf("write video: %w: %w", utils.ErrStorage, err)
	}
	if err := us.Close(); err != nil {
		return nil, fmt.Errorf("finalize video: %w: %w", utils.ErrStorage, err)
	}

	// report what the store recorded, uploadDate included
	var f gridFile
	if err := s.files.FindOne(ctx, bson.M{"_id": us.FileID}).Decode(&f); err == nil {
		return f.video(), nil
	}
	oid, _ := us.FileID.(primitive.ObjectID)
	return &models.Video{
		ID:          oid.Hex(),
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		SizeBytes:   n,
		UploadedAt:  time.Now().UTC(),
	}, nil
}

func (s *GridFSStore) Download(ctx context.Context, userID, filename string) (*models.Video, io.ReadCloser, error) {
	opts := options.GridFSFind().SetSort(bson.D{{Key: "uploadDate", Value: -1}}).SetLimit(1)
	cur, err := s.bucket.FindContext(ctx, bson.M{"metadata.userId": userID, "filename": filename}, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("find video: %w: %w", utils.ErrStorage, err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, nil, fmt.Errorf("find video: %w: %w", utils.ErrStorage, err)
		}
		return nil, nil, fmt.Errorf("video %s for user %s: %w", filename, userID, utils.ErrNotFound)
	}
	var f gridFile
	if err := cur.Decode(&f); err != nil {
		return nil, nil, fmt.Errorf("decode video: %w: %w", utils.ErrStorage, err)
	}

	ds, err := s.bucket.OpenDownloadStream(f.ID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, fmt.Errorf("video %s for user %s: %w", filename, userID, utils.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open download stream: %w: %w", utils.ErrStorage, err)
	}
	return f.video(), ds, nil
}

func (s *GridFSStore) List(ctx context.Context) ([]*models.Video, error) {
	opts := options.GridFSFind().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	cur, err := s.bucket.FindContext(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w: %w", utils.ErrStorage, err)
	}
	defer cur.Close(ctx)

	out := make([]*models.Video, 0)
	for cur.Next(ctx) {
		var f gridFile
		if err := cur.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode video: %w: %w", utils.ErrStorage, err)
		}
		out = append(out, f.video())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w: %w", utils.ErrStorage, err)
	}
	return out, nil
}

// contextReader stops a copy once ctx is done, so an abandoned request
// aborts its upload instead of finalizing a truncated object.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
