package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finplan/internal/config"
	"github.com/rgehrsitz/finplan/internal/logging"
	"github.com/rgehrsitz/finplan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculations over HTTP",
	Long: `Serve the calculations as a JSON HTTP API.

Endpoints: POST /v1/growth, /v1/retirement, /v1/goal, /v1/plan and GET /healthz.
Settings come from FINPLAN_ADDR, FINPLAN_LOG_LEVEL and FINPLAN_LOG_FORMAT,
optionally loaded from a .env file. Flags override the environment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		settings, err := config.LoadServerSettings(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			settings.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("log-level") {
			settings.LogLevel, _ = cmd.Flags().GetString("log-level")
		}

		log, err := logging.New(logging.Options{
			Level:  settings.LogLevel,
			Format: settings.LogFormat,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.New(settings, log).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().String("env-file", ".env", "Environment file to load before reading settings")

	rootCmd.AddCommand(serveCmd)
}
