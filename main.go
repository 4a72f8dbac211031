package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/auth"
	"github.com/example/task-tracker/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "task-tracker",
		Short: "Task tracking backend",
		Long: `task-tracker serves a JSON API for creating, assigning, commenting on
and completing tasks. Settings come from tasktracker.yaml and TASKTRACKER_*
environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Println("=== Task Tracker ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	logger := app.Logger()

	authCfg := auth.Config{
		DBPath:     cfg.AuthDBPath,
		Debug:      cfg.DatabaseDebug,
		BcryptCost: cfg.BcryptCost,
		JWT: auth.JWTConfig{
			SecretKey:            cfg.JWTSecret,
			AccessTokenDuration:  cfg.JWTAccessTTL,
			RefreshTokenDuration: cfg.JWTRefreshTTL,
			Issuer:               cfg.JWTIssuer,
		},
	}
	taskCfg := task.Config{
		Driver: cfg.StorageDriver,
		DBPath: cfg.TasksDBPath,
		Debug:  cfg.DatabaseDebug,
	}

	// Order: auth provides users, task depends on auth, api depends on both.
	app.Register(auth.NewModule(authCfg, logger))
	app.Register(task.NewModule(taskCfg, logger))
	app.Register(api.NewModule(cfg.HTTPAddr, app.Health, logger))

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	logger.Info("Application started",
		"addr", cfg.HTTPAddr,
		"storage", cfg.StorageDriver)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	if exitCode != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", exitCode)
	}
	return nil
}
