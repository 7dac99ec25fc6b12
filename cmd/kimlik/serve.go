package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KilimcininKorOglu/kimlik/internal/config"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
	"github.com/KilimcininKorOglu/kimlik/internal/rest"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if v, _ := cmd.Flags().GetString("address"); v != "" {
				cfg.Server.Address = v
			}
			if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
				cfg.Storage.DataDir = v
			}
			if v, _ := cmd.Flags().GetString("driver"); v != "" {
				cfg.Storage.Driver = v
			}
			if v, _ := cmd.Flags().GetString("log-level"); v != "" {
				cfg.Logging.Level = v
			}

			if err := validate(cfg); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, cfg, path)
		},
	}

	cmd.Flags().String("address", "", "listen address (overrides config)")
	cmd.Flags().String("data-dir", "", "data directory (overrides config)")
	cmd.Flags().String("driver", "", "storage driver: memory, nutsdb, sqlite, postgres (overrides config)")
	cmd.Flags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	return cmd
}

// service ties the store, the HTTP server and configuration reloads together.
type service struct {
	logger logging.Logger
	store  store.Store
	rest   *rest.Server
}

func newService(ctx context.Context, cfg *config.Config) (*service, error) {
	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	st, err := openStore(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &service{
		logger: logger,
		store:  st,
		rest:   rest.NewServer(rest.ServerConfigFrom(cfg), st, logger),
	}, nil
}

// handleConfigReload applies the settings that take effect without a restart.
func (s *service) handleConfigReload(oldCfg, newCfg *config.Config) {
	sysLogger := s.logger.WithSource("system")
	sysLogger.Info("config file changed, applying hot-reloadable settings")

	if oldCfg.Logging.Level != newCfg.Logging.Level {
		s.logger.SetLevel(newCfg.Logging.Level)
		sysLogger.Info("log level changed", "old", oldCfg.Logging.Level, "new", newCfg.Logging.Level)
	}
	if oldCfg.Server.Address != newCfg.Server.Address || oldCfg.Storage != newCfg.Storage {
		sysLogger.Warn("server address and storage changes require a restart")
	}

	s.rest.ApplyConfig(newCfg)
	sysLogger.Info("config reload completed")
}

func serve(ctx context.Context, cfg *config.Config, configFile string) error {
	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.store.Close()

	sysLogger := svc.logger.WithSource("system")
	sysLogger.Info("storage opened", "driver", cfg.Storage.Driver)

	if configFile != "" {
		manager := config.NewConfigManager(cfg, configFile)
		manager.SetOnUpdate(svc.handleConfigReload)
		svc.rest.SetConfigManager(manager)

		watcher, err := config.NewConfigWatcher(&config.WatcherConfig{
			FilePath: configFile,
			OnChange: func(_, newCfg *config.Config) { manager.Apply(newCfg) },
			OnError: func(err error) {
				sysLogger.Warn("config reload rejected", "error", err)
			},
		})
		if err != nil {
			sysLogger.Warn("failed to create config watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			sysLogger.Warn("failed to start config watcher", "error", err)
		} else {
			sysLogger.Info("config file watcher started", "file", configFile)
			defer watcher.Stop()
		}
	}

	listener, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.rest.Serve(listener)
	})
	g.Go(func() error {
		<-gctx.Done()
		sysLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return svc.rest.Stop(shutdownCtx)
	})

	return g.Wait()
}
