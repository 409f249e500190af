package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"textintel/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. Routes live under the configured path prefix
(/api/v1 by default). The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	svc, cleanup, err := buildService(components{llm: true})
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := globalConfig.Server
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	globalLogger.Info("starting", "app", globalConfig.App.Name, "version", globalConfig.App.Version, "environment", globalConfig.App.Environment)
	return httpapi.NewServer(svc, cfg, globalLogger.WithName("http")).Run(ctx)
}
