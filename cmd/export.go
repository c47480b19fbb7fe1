package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fathima-sithara/sampling-service/internal/events"
	"github.com/fathima-sithara/sampling-service/internal/export"
	"github.com/fathima-sithara/sampling-service/internal/metrics"
	"github.com/fathima-sithara/sampling-service/internal/repository"
	service "github.com/fathima-sithara/sampling-service/internal/services"
)

func runExport(ctx context.Context, format string, limit int64, out string) error {
	if err := export.Check(format); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, db, client, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Disconnect(context.Background())
		_ = logger.Sync()
	}()

	if limit == 0 {
		limit = cfg.App.DefaultLimit
	}
	repo := repository.NewMongoSampleRepo(db, cfg.Mongo.Collection)
	svc := service.NewSampleService(repo, events.Nop(), metrics.New(), logger, cfg.App.DefaultUser)
	records, err := svc.Export(ctx, limit)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := export.Encode(w, format, records); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if out != "" {
		logger.Infow("export written", "path", out, "records", len(records), "format", format)
	}
	return nil
}
