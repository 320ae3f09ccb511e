package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/planora/planora/internal/config"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/repository"
	"github.com/planora/planora/internal/server"
	"github.com/planora/planora/internal/service"
	"github.com/planora/planora/internal/storage"
)

// Version is set during build with ldflags.
var Version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "planora",
		Short:   "Planora personal productivity backend",
		Version: Version,
	}
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if _, err := repository.NewDatabase(cfg); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return nil
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.NewJSONLogger()
	ctx := context.Background()

	db, err := repository.NewDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tagRepo := repository.NewTagRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	eventRepo := repository.NewEventRepository(db)
	imageRepo := repository.NewImageRepository(db)

	store, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}

	svc := server.Services{
		Projects:  service.NewProjectService(projectRepo, taskRepo, log),
		Tasks:     service.NewTaskService(taskRepo, tagRepo, projectRepo, log),
		Tags:      service.NewTagService(tagRepo),
		Notes:     service.NewNoteService(noteRepo, log),
		Calendar:  service.NewCalendarService(eventRepo, log),
		Dashboard: service.NewDashboardService(projectRepo, taskRepo, noteRepo, eventRepo),
		Images:    service.NewImageService(imageRepo, noteRepo, store, log),
	}

	router := server.NewRouter(svc, []byte(cfg.Auth.Secret), log)
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		log.Info(ctx, "shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info(ctx, "server stopped")
	return nil
}
