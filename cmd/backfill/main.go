package main

import (
	"context"
	"os"
	"time"

	"github.com/portfoliokit/portfolio/internal/config"
	"github.com/portfoliokit/portfolio/internal/database"
	"github.com/portfoliokit/portfolio/internal/projects"
	"github.com/portfoliokit/portfolio/pkg/logger"
)

// Assigns slugs to projects that predate slug support and repairs duplicates.
// Safe to run repeatedly; a consistent collection is left untouched.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	col := client.Database(cfg.MongoDB.Database).Collection("projects")
	svc := projects.NewService(projects.NewMongoRepository(col))

	touched, err := svc.BackfillSlugs(ctx)
	if err != nil {
		logger.Fatalf("slug backfill failed after updating %d projects: %v", touched, err)
	}
	logger.Infof("slug backfill complete: %d projects updated", touched)
}
