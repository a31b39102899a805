package cli

import (
	"context"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/server"
	"todo/internal/services"
)

// Serve opens the store named by cfg and serves HTTP until ctx is done
func Serve(ctx context.Context, cfg *config.Config) error {
	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logging.Errorf("close store: %v", err)
		}
	}()

	srv, err := server.New(cfg, services.NewTaskService(repo, cfg))
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

// Ping opens the store named by cfg and checks it answers
func Ping(ctx context.Context, cfg *config.Config) error {
	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.Ping(ctx)
}
