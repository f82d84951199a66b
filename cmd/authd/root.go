package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-cookie-auth/internal/buildinfo"
	"github.com/goliatone/go-cookie-auth/internal/config"
	"github.com/goliatone/go-cookie-auth/internal/logging"
)

// global flags
var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
)

const (
	LogLevelKey   = "log.level"
	LogFormatKey  = "log.format"
	LogNoColorKey = "log.no_color"
	AddrKey       = "addr"
	DebugKey      = "debug"
)

var rootCmd = &cobra.Command{
	Use:   "authd",
	Short: fmt.Sprintf("Cookie session auth server (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `authd exchanges username and password for a signed session token
	stored in the access_token cookie and resolves the caller identity
	from that cookie on every request.`,
	Version: buildinfo.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		logging.Init(os.Stderr, cfg.Log.Level, cfg.Log.Format, cfg.Log.NoColor)
		if cfgFile != "" {
			log.Debug().Msgf("using config file: %s", cfgFile)
		}
		return nil
	},
}

func Execute() {
	if code := exitCode(); code != 0 {
		os.Exit(code)
	}
}

func exitCode() int {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("execution failed")
		return 1
	}
	return 0
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file (yaml, json or toml)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = v.BindPFlag(LogLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = v.BindPFlag(LogFormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = v.BindPFlag(LogNoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.PersistentFlags().Bool("debug", false, "Dump login responses to the debug log")
	_ = v.BindPFlag(DebugKey, rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
