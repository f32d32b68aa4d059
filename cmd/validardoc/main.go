// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the validardoc CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/validardoc/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	logger  = zap.NewNop()
	verbose bool

	// exitCode is the process status chosen by the validation run.
	exitCode int
)

// rootCmd runs a validation when invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "validardoc [validardoc://validate?rowID=ID&headless=BOOL] [rowID=ID] [headless=BOOL]",
	Short: "Validate the most recent signed document against the ITI portal",
	Long: `validardoc takes the two most recently modified files of the downloads
directory, a PDF and a zip holding its detached .p7s signature, submits
them to the ITI signature validation portal in a browser, reports the
verdict to the callback endpoint and writes a copy of the PDF stamped
with the verdict.

The desktop shell starts it with a validardoc:// URL or with rowID= and
headless= tokens. The other subcommands run single pipeline stages.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runValidate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./validardoc.yaml or ~/.config/validardoc/validardoc.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("validardoc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "validardoc"))
		}
	}

	viper.SetEnvPrefix("VALIDARDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintln(os.Stderr, "Reading config file:", err)
		}
	}
}

// setDefaults registers every config key so environment variables can
// override keys that no config file mentions.
func setDefaults(d types.Config) {
	home, _ := os.UserHomeDir()
	downloads := d.DownloadsDir
	if downloads == "" && home != "" {
		downloads = filepath.Join(home, "Downloads")
	}
	historyPath := d.History.Path
	if historyPath == "" && home != "" {
		historyPath = filepath.Join(home, ".config", "validardoc", "history.db")
	}

	viper.SetDefault("downloads_dir", downloads)
	viper.SetDefault("temp_dir", d.TempDir)
	viper.SetDefault("open_viewer", d.OpenViewer)
	viper.SetDefault("portal.url", d.Portal.URL)
	viper.SetDefault("browser.executables", d.Browser.Executables)
	viper.SetDefault("browser.viewport_width", d.Browser.ViewportWidth)
	viper.SetDefault("browser.viewport_height", d.Browser.ViewportHeight)
	viper.SetDefault("callback.endpoint", d.Callback.Endpoint)
	viper.SetDefault("callback.timeout", d.Callback.Timeout)
	viper.SetDefault("callback.user_agent", d.Callback.UserAgent)
	viper.SetDefault("timing.result_timeout", d.Timing.ResultTimeout)
	viper.SetDefault("timing.grace_period", d.Timing.GracePeriod)
	viper.SetDefault("timing.linger", d.Timing.Linger)
	viper.SetDefault("timing.close_timeout", d.Timing.CloseTimeout)
	viper.SetDefault("footer.certification", d.Footer.Certification)
	viper.SetDefault("history.path", historyPath)
}

// loadConfig decodes the merged configuration. An empty temp_dir resolves
// to the system temp directory.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.DownloadsDir == "" {
		return types.Config{}, fmt.Errorf("downloads_dir is not set and the home directory is unknown")
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}
