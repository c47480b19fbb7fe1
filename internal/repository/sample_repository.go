package repository

import (
	"context"
	"fmt"

	"github.com/fathima-sithara/sampling-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SampleRepository interface {
	Insert(ctx context.Context, s *models.Sample) error
	// List returns up to limit samples, newest first. An empty userID
	// matches every user.
	List(ctx context.Context, userID string, limit int64) ([]*models.Sample, error)
	Ping(ctx context.Context) error
}

type mongoSampleRepo struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewMongoSampleRepo(db *mongo.Database, collection string) SampleRepository {
	return &mongoSampleRepo{db: db, col: db.Collection(collection)}
}

// EnsureSampleIndexes creates the indexes the list queries sort and filter on.
func EnsureSampleIndexes(ctx context.Context, col *mongo.Collection) error {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at_datetime", Value: -1}},
			Options: options.Index().SetName("user_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "created_at_datetime", Value: -1}},
			Options: options.Index().SetName("created_idx"),
		},
	})
	return err
}

func (r *mongoSampleRepo) Insert(ctx context.Context, s *models.Sample) error {
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid
	}
	return nil
}

func (r *mongoSampleRepo) List(ctx context.Context, userID string, limit int64) ([]*models.Sample, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at_datetime", Value: -1}}).
		SetLimit(limit)
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Sample, 0)
	for cur.Next(ctx) {
		var s models.Sample
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode sample: %w", err)
		}
		out = append(out, &s)
	}
	return out, cur.Err()
}

func (r *mongoSampleRepo) Ping(ctx context.Context) error {
	return r.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
