// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/serp-analyzer/internal/server"
	"github.com/pdiddy/serp-analyzer/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/search/analyze  {"query": "...", "maxResults": 10}
  GET  /api/search/health

One worker pool is shared by all requests. On SIGINT or SIGTERM the server
stops accepting connections, waits for in-flight requests, and then shuts
the pool down.`,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("host", "", "address to bind (default from config, 127.0.0.1)")
	f.String("port", "", "port to listen on (default from config, 8080)")
	f.String("allowed-origin", "", "CORS allowed origin (default from config, *)")
	f.Bool("offline", false, "use synthetic results instead of the Serper API")
	f.Int("workers", 0, "classification worker count (default from config, 10)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), map[string]string{
		"host":           "server.host",
		"port":           "server.port",
		"allowed-origin": "server.allowed_origin",
		"workers":        "analysis.workers",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		cfg.Search.Provider = types.ProviderMock
	}

	analyzer, pool, err := buildAnalyzer(cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg.Server, analyzer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
