package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biswatma/zerocoder/pkg/cli"
	"github.com/biswatma/zerocoder/pkg/config"
	"github.com/biswatma/zerocoder/pkg/server"
)

var runFlags struct {
	listen   string
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the generation proxy",
	Long: `Start the HTTP server that serves /api/generate.

The server runs until it receives SIGINT or SIGTERM, then stops accepting
connections and waits for open generation streams to finish, up to the
configured shutdown timeout.`,
	Example: `  # Start with defaults
  zerocoder run

  # Start with a configuration file on a different port
  zerocoder run --config config.yaml --listen 127.0.0.1:8080

  # Check a configuration file without starting
  zerocoder run --config config.yaml --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listen, "listen", "l", "", "listen address (overrides config)")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate configuration and exit")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listen != "" {
		cfg.Server.ListenAddress = runFlags.listen
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if runFlags.dryRun {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ Configuration valid")
		fmt.Fprintf(out, "  listen address: %s\n", cfg.Server.ListenAddress)
		fmt.Fprintf(out, "  default engine: %s\n", cfg.Engines.Default)
		fmt.Fprintf(out, "  audit enabled:  %t\n", cfg.Audit.Enabled)
		return nil
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	components, err := server.Build(cfg, Version)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		if err := components.Close(context.Background()); err != nil {
			logger.Error("failed to release components", "error", err)
		}
	}()

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	logger.Info("zerocoder starting",
		"version", Version,
		"listen_address", cfg.Server.ListenAddress,
		"default_engine", cfg.Engines.Default,
	)

	if err := server.New(cfg, components, versionInfo()).Run(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	logger.Info("zerocoder stopped")
	return nil
}
