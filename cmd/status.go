package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"hotspot-control/core/config"
	"hotspot-control/core/logger"
	"hotspot-control/core/outbound"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	statusHost string
	statusPort int
)

// statusCmd queries a running server.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running server",
	Long: `Requests /api/status from a running server. Without --port every
configured candidate port is tried in order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()

		outCfg := cfg.Outbound
		outCfg.Cache.Enabled = false
		client := outbound.New(outCfg, logg)
		defer client.Close(time.Second)

		host := statusHost
		if host == "" {
			host = cfg.Server.Host
		}
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "127.0.0.1"
		}

		ports := cfg.Server.CandidatePorts()
		if statusPort > 0 {
			ports = []int{statusPort}
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var lastErr error
		for _, port := range ports {
			url := statusURL(host, port, cfg.Server.AuthEnabled, cfg.Server.ApiKey)
			resp, err := client.Get(ctx, url)
			if err != nil {
				logg.Debug("No server on port", zap.Int("port", port), zap.Error(err))
				lastErr = err
				continue
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server on port %d answered %d", port, resp.StatusCode)
			}

			var out bytes.Buffer
			if err := json.Indent(&out, resp.Body, "", "  "); err != nil {
				return fmt.Errorf("invalid status response: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "port %d\n%s\n", port, out.String())
			return nil
		}

		return errors.Join(errors.New("no running server found"), lastErr)
	},
}

func statusURL(host string, port int, auth bool, key string) string {
	base := "http://" + net.JoinHostPort(host, strconv.Itoa(port))
	if auth {
		base += "/" + key
	}
	return base + "/api/status"
}

func init() {
	statusCmd.Flags().StringVar(&statusHost, "host", "", "server host (defaults to the configured host)")
	statusCmd.Flags().IntVar(&statusPort, "port", 0, "server port (defaults to every candidate port)")
	RootCmd.AddCommand(statusCmd)
}
