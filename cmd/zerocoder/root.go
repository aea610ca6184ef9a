package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/biswatma/zerocoder/pkg/cli"
	"github.com/biswatma/zerocoder/pkg/config"
	"github.com/biswatma/zerocoder/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	envFile string
	verbose bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zerocoder",
		Short: "ZeroCoder - prompt-to-HTML generation proxy",
		Long: `ZeroCoder forwards a prompt to an LLM engine and streams a single,
self-contained HTML document back to the browser.

Supported engines:
  - gemini      hosted model, streamGenerateContent (default)
  - lmstudio    local OpenAI-compatible inference server
  - openrouter  model-routing aggregator

Configuration is read from an optional YAML file, a .env file and
ZEROCODER_* environment variables, in increasing order of precedence.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the dotenv file, the config file and the environment, in
// that order, and installs the result as the global configuration.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, cli.NewConfigError("env-file", err.Error())
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, fmt.Sprintf("failed to load config: %v", err))
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	config.SetConfig(cfg)
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default.
func setupLogging(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, nil
}
