// Package cli provides the command-line interface for grammateus.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"grammateus/internal/config"
	"grammateus/internal/continuation"
	"grammateus/internal/logger"
)

// App represents the grammateus CLI application
type App struct {
	Viper  *viper.Viper
	Config *config.Config

	configFile string

	// NewGenerator builds the Gemini backend for an API key. Tests replace it.
	NewGenerator func(apiKey string) continuation.Generator
}

// NewApp creates a new grammateus CLI application
func NewApp() *App {
	return &App{
		Viper: config.New(),
		NewGenerator: func(apiKey string) continuation.Generator {
			return continuation.NewGeminiGenerator(apiKey)
		},
	}
}

// CreateRootCommand creates and configures the root command
func (app *App) CreateRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grammateus",
		Short: "Convert Gemini conversation records and continue texts",
		Long: `grammateus converts YAML conversation files from the Gemini "parts/role" shape
into flat "role/text" records, builds conversations from text files, and asks
Gemini models to continue a text.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.initialize,
	}

	rootCmd.PersistentFlags().String(config.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().String(config.KeyLogFile, "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/grammateus/config.yaml)")
	app.bindFlag(rootCmd, config.KeyLogLevel, config.KeyLogLevel, true)
	app.bindFlag(rootCmd, config.KeyLogFile, config.KeyLogFile, true)

	app.addTransformCommand(rootCmd)
	app.addImportTextCommand(rootCmd)
	app.addRoundTripCommand(rootCmd)
	app.addContinueCommand(rootCmd)
	app.addVersionCommand(rootCmd)

	return rootCmd
}

// bindFlag ties a flag to a viper key so flags take precedence over env and config file.
func (app *App) bindFlag(cmd *cobra.Command, key, flag string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	if err := app.Viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
		panic(fmt.Sprintf("error binding %s flag: %v", flag, err))
	}
}

func (app *App) initialize(_ *cobra.Command, _ []string) error {
	if wd, err := os.Getwd(); err == nil {
		if err := config.LoadDotEnv(wd); err != nil {
			return err
		}
	}

	cfg, err := config.Load(app.Viper, app.configFile)
	if err != nil {
		return err
	}
	app.Config = cfg

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}
	if cfg.ConfigFile != "" {
		logger.Debug("Loaded config file", "path", cfg.ConfigFile)
	}
	return nil
}
