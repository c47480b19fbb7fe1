package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fathima-sithara/sampling-service/internal/models"
	"github.com/fathima-sithara/sampling-service/internal/repository"
	utils "github.com/fathima-sithara/sampling-service/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type objectUploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type videoIndex interface {
	Insert(ctx context.Context, v *models.Video) error
	FindLatest(ctx context.Context, userID, filename string) (*models.Video, error)
	List(ctx context.Context) ([]*models.Video, error)
}

// S3Store keeps video bytes in a bucket and the (user, filename) index in
// MongoDB, since object metadata is not queryable.
type S3Store struct {
	client   objectGetter
	uploader objectUploader
	index    videoIndex
	bucket   string
}

// NewS3Store builds the client from the default AWS credential chain. A
// non-empty endpoint selects an S3-compatible server (MinIO) with path-style
// addressing.
func NewS3Store(ctx context.Context, region, bucket, endpoint string, index *repository.VideoRepo) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	// the uploader splits unknown-length bodies into parts and aborts the
	// multipart upload if any part fails
	uploader := manager.NewUploader(client)
	return &S3Store{client: client, uploader: uploader, index: index, bucket: bucket}, nil
}

func objectKey(userID, id, filename string) string {
	return userID + "/" + id + "_" + filename
}

func (s *S3Store) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (*models.Video, error) {
	id := primitive.NewObjectID().Hex()
	key := objectKey(userID, id, filename)
	body := &countingReader{r: r}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{"userid": userID, "filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w: %w", utils.ErrStorage, err)
	}

	v := &models.Video{
		ID:          id,
		UserID:      userID,
		Filename:    filename,
		ContentType: contentType,
		Key:         key,
		SizeBytes:   body.n,
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.index.Insert(ctx, v); err != nil {
		return nil, fmt.Errorf("index video: %w: %w", utils.ErrStorage, err)
	}
	return v, nil
}

func (s *S3Store) Download(ctx context.Context, userID, filename string) (*models.Video, io.ReadCloser, error) {
	v, err := s.index.FindLatest(ctx, userID, filename)
	if errors.Is(err, repository.ErrVideoNotFound) {
		return nil, nil, fmt.Errorf("video %s for user %s: %w", filename, userID, utils.ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find video: %w: %w", utils.ErrStorage, err)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(v.Key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w: %w", utils.ErrStorage, err)
	}
	return v, out.Body, nil
}

func (s *S3Store) List(ctx context.Context) ([]*models.Video, error) {
	out, err := s.index.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w: %w", utils.ErrStorage, err)
	}
	return out, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
