package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectMongo returns the database handle and the full client. The first
// ping is retried with exponential backoff for up to retryFor so the service
// can start alongside its database.
func ConnectMongo(ctx context.Context, uri, dbName string, timeout, retryFor time.Duration, log *zap.SugaredLogger) (*mongo.Database, *mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, nil, err
	}

	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return client.Ping(pctx, readpref.Primary())
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = retryFor
	notify := func(err error, next time.Duration) {
		log.Warnw("mongo not reachable yet", "error", err, "retry_in", next)
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client.Database(dbName), client, nil
}
