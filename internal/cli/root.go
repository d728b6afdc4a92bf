// Package cli holds the imgdegrade command tree
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"imgdegrade/pkg/config"
)

type rootOptions struct {
	configPath string
	verbose    bool
	level      slog.LevelVar
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "imgdegrade",
		Short: "Synthetic image degradation for restoration datasets",
		Long: `imgdegrade builds degraded copies of reference images for training and
evaluating image restoration models.

Each command walks a directory of reference images, draws one parameter set
per image from its candidate lists, and writes the degraded image under the
same name into every destination directory. Candidate lists come from the
YAML config and can be overridden with flags.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			opts.setupLogging(opts.verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newBlurCmd(opts))
	cmd.AddCommand(newNoiseCmd(opts))
	cmd.AddCommand(newSensorCmd(opts))
	cmd.AddCommand(newCompressCmd(opts))
	cmd.AddCommand(newDownscaleCmd(opts))
	cmd.AddCommand(newOTFCmd())
	cmd.AddCommand(newManifestCmd())
	cmd.AddCommand(newInitConfigCmd(opts))

	return cmd
}

func (o *rootOptions) setupLogging(verbose bool) {
	if verbose {
		o.level.Set(slog.LevelDebug)
	} else {
		o.level.Set(slog.LevelInfo)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &o.level}))
	slog.SetDefault(logger)
}

// resolveConfigPath picks --config, then the environment, then the default
func (o *rootOptions) resolveConfigPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	if env := os.Getenv(config.EnvConfigPath); env != "" {
		return env
	}
	return config.DefaultConfigPath
}

// loadConfig reads the config file; a missing file yields defaults
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.resolveConfigPath()
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if cfg.Output.Verbose {
		o.level.Set(slog.LevelDebug)
	}
	slog.Debug("Configuration loaded", "path", path)
	return cfg, nil
}
