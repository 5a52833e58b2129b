package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hotspot-control/core/apikey"
	"hotspot-control/core/config"
	"hotspot-control/core/logger"
	"hotspot-control/core/manager"
	"hotspot-control/core/server"
	"hotspot-control/core/statuscache"
	"hotspot-control/core/sysstatus"
	"hotspot-control/core/wifi"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the control server",
	Long: `Starts the control server on the first free candidate port and keeps it
running until interrupted.

Signals:
  SIGUSR1  stop the server, keep the process (background)
  SIGUSR2  start the server again (foreground)
  SIGHUP   reload configuration and restart the server
  SIGINT, SIGTERM  stop and exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ensureKey(&cfg.Server, "", logg)

		// 3. Host readings
		cache := statuscache.New(nil, cfg.Status.TTL)
		if provider, err := sysstatus.New(cfg.Host); err != nil {
			logg.Warn("Host readings unavailable", zap.Error(err))
		} else {
			cache = statuscache.New(provider, cfg.Status.TTL)
		}

		// 4. Hotspot controller
		controller, err := wifi.New(cfg.Wifi, logg)
		if err != nil {
			return err
		}
		if closer, ok := controller.(wifi.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					logg.Warn("Failed to close wifi controller", zap.Error(err))
				}
			}()
		}

		// 5. Manager
		mgr := manager.New(manager.Options{
			Logger:        logg,
			Status:        cache,
			Outbound:      cfg.Outbound,
			Features:      features(cfg, controller),
			StatusRefresh: cfg.Status.RefreshInterval,
		})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if _, err := mgr.Start(ctx, cfg.Server); err != nil {
			return err
		}
		defer mgr.Stop()
		// Runs before Stop so a pending reconfiguration cannot restart the server afterwards.
		defer mgr.Wait()

		// 6. Lifecycle
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGUSR1, syscall.SIGUSR2)
		defer signal.Stop(sigs)

		for sig := range sigs {
			switch sig {
			case syscall.SIGUSR1:
				logg.Info("Moving to background, stopping server")
				mgr.Stop()
			case syscall.SIGUSR2:
				logg.Info("Moving to foreground, starting server")
				if _, err := mgr.Restart(ctx); err != nil {
					logg.Error("Failed to start server", zap.Error(err))
				}
			case syscall.SIGHUP:
				next, err := config.LoadConfig(configDir)
				if err != nil {
					logg.Error("Failed to reload configuration", zap.Error(err))
					continue
				}
				ensureKey(&next.Server, cfg.Server.ApiKey, logg)
				if _, err := mgr.Reconfigure(ctx, next.Server); err != nil {
					logg.Error("Failed to apply configuration", zap.Error(err))
					continue
				}
				cfg.Server = next.Server
			default:
				logg.Info("Shutting down server...", zap.String("signal", sig.String()))
				return nil
			}
		}
		return nil
	},
}

// ensureKey fills in a missing key when auth is enabled, reusing previous
// when it is set and generating one otherwise.
func ensureKey(cfg *server.Config, previous string, logg *zap.Logger) {
	if !cfg.AuthEnabled || cfg.ApiKey != "" {
		return
	}
	if previous != "" {
		cfg.ApiKey = previous
		return
	}
	cfg.ApiKey = apikey.Generate()
	logg.Warn("No API key configured, generated one for this run", zap.String("api_key", cfg.ApiKey))
}

func init() {
	RootCmd.AddCommand(startCmd)
}
