package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rrtstar-planner/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP planning service",
	Long: `Serve one-shot routes and long-running planning sessions over HTTP.

Endpoints:
  GET    /health          - Check server status
  POST   /route           - Compute route with start and end points
  POST   /plans           - Open a planning session
  GET    /plans/:id       - Session status and best path
  POST   /plans/:id/step  - Advance a session by N iterations
  POST   /plans/:id/run   - Run a session to completion
  GET    /plans/:id/tree  - Tree edges for visualization
  DELETE /plans/:id       - Drop a session
  GET    /metrics         - Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"Listen address, overrides server.addr")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		appConfig.Server.Addr = serveAddr
	}

	field, err := appConfig.Map.LoadField(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(appConfig, field, logger).Run(ctx)
}
