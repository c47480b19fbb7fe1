package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/sampling-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrVideoNotFound = errors.New("video not found")

// VideoRepo keeps video metadata for object stores that cannot be queried
// by metadata themselves (the s3 backend).
type VideoRepo struct {
	col *mongo.Collection
}

func NewVideoRepo(col *mongo.Collection) *VideoRepo {
	return &VideoRepo{col: col}
}

// EnsureIndexes creates the (user_id, filename, uploaded_at desc) lookup index.
func (r *VideoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "filename", Value: 1}, {Key: "uploaded_at", Value: -1}},
		Options: options.Index().SetName("user_filename_idx"),
	})
	return err
}

func (r *VideoRepo) Insert(ctx context.Context, v *models.Video) error {
	if v.UploadedAt.IsZero() {
		v.UploadedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, v)
	return err
}

// FindLatest returns the most recent upload for (userID, filename).
func (r *VideoRepo) FindLatest(ctx context.Context, userID, filename string) (*models.Video, error) {
	var v models.Video
	opts := options.FindOne().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "filename": filename}, opts).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepo) List(ctx context.Context) ([]*models.Video, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*models.Video, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
