package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog/internal/app"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const startupPingTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Product catalog REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCommand,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  serveCommand,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the products table and exit",
		RunE:  migrateCommand,
	})
	return root
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Logger)
	return serve(cmd.Context(), cfg, logger)
}

func migrateCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger(cfg.Logger)

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Ping(cmd.Context(), db, startupPingTimeout); err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database migrated")
	return nil
}

// serve runs the API until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("error closing database")
		}
	}()

	// An unreachable store is logged and the server still starts; data
	// requests fail until it comes back.
	if err := database.Ping(ctx, db, startupPingTimeout); err != nil {
		logger.Error().Err(err).Msg("Hubo un error al conectar a la base de datos")
	} else if err := database.Migrate(db); err != nil {
		logger.Error().Err(err).Msg("database migration failed")
	} else {
		logger.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("product events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
			logger.Info().Str("exchange", cfg.RabbitMQ.Exchange).Msg("publishing product events")
		}
	}

	application := app.NewApp(app.Options{
		Config:    cfg,
		DB:        db,
		Publisher: publisher,
		Logger:    logger,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.AppPort).Msg("starting server")
		listenErr <- application.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	if err := application.Shutdown(); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	logger.Info().Msg("server gracefully stopped")
	return nil
}
