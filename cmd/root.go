package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/maskedit/internal/app"
	"github.com/zjrosen/maskedit/internal/config"
	"github.com/zjrosen/maskedit/internal/log"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "maskedit",
	Short: "Masked text input fields for the terminal",
	Long: `maskedit edits text through input masks: phone numbers, amounts, dates,
hex colors and any other fixed-shape value described by a pattern.

Without a subcommand it runs the demo form built from the config file.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runDemo,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive demo form",
	RunE:  runDemo,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .maskedit/config.yaml, then ~/.config/maskedit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (path from MASKEDIT_LOG, default debug.log)")
	rootCmd.PersistentFlags().StringP("locale", "l", "",
		"locale id for number symbols and calendar names (overrides config)")

	_ = viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))

	rootCmd.AddCommand(demoCmd)
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("locale", defaults.Locale)
	viper.SetDefault("editor.placeholder", defaults.Editor.Placeholder)
	viper.SetDefault("editor.overwrite", defaults.Editor.Overwrite)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .maskedit/config.yaml (current directory)
		// 2. ~/.config/maskedit/config.yaml (user config)
		if _, err := os.Stat(config.DefaultPath); err == nil {
			viper.SetConfigFile(config.DefaultPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "maskedit"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config anywhere: write the commented default so there is
			// something to edit. On failure continue with defaults.
			if writeErr := config.WriteDefaultConfig(config.DefaultPath); writeErr == nil {
				viper.SetConfigFile(config.DefaultPath)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
	if len(cfg.Fields) == 0 && !viper.IsSet("fields") {
		cfg.Fields = defaults.Fields
	}
}

// reloadConfig re-reads the config file the program started with.
func reloadConfig() (config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return config.Config{}, fmt.Errorf("reading config: %w", err)
	}
	var next config.Config
	if err := viper.Unmarshal(&next); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return next, nil
}

// initLogging enables file logging for --debug or MASKEDIT_DEBUG. Otherwise
// log lines only reach the demo's log pane.
func initLogging() (func(), error) {
	if !debugFlag && os.Getenv(log.EnvDebug) == "" {
		log.InitWriter(io.Discard)
		return func() { log.Reset() }, nil
	}
	logPath := os.Getenv("MASKEDIT_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "maskedit starting", "version", version, "logPath", logPath)
	return cleanup, nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cleanup, err := initLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.Validate(cmd.Context()); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := app.Options{Config: cfg}
	if path := viper.ConfigFileUsed(); path != "" {
		opts.ConfigPath = path
		opts.Reload = reloadConfig
	}

	model, err := app.New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Stop the config watcher and listeners
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
