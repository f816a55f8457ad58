package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/config"
	"github.com/Beastly713/stegano/pkg/logging"
)

var (
	configPath string
	logLevel   string
	logFile    string

	// set up by the root pre-run hook for every subcommand
	defaults = config.Builtin()
	logger   = zerolog.Nop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "stegano",
	Short: "Hide files inside images",
	Long: `Stegano: hide a file or message inside a PNG, BMP or JPEG cover image.

The password decides which pixels (lsb) or 8x8 blocks (dctlsb) carry the
hidden bits, and optionally encrypts the payload as well. The same password
is needed to get the data back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1. Defaults file; config init may be creating it
		path, optional := configPath, cmd == configInitCmd
		if path == "" {
			path, optional = config.DefaultPath(), true
		}
		if path != "" {
			d, err := config.Load(path, optional)
			if err != nil {
				return err
			}
			defaults = d
		}

		// 2. Logger
		level, file := defaults.LogLevel, defaults.LogFile
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			file = logFile
		}
		logger, closeLog = logging.New(logging.Options{Level: level, File: file})
		logger.Debug().Str("config", path).Str("command", cmd.Name()).Msg("starting")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML file with default settings (default: stegano/stegano.yaml in the user config dir)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "Also write JSON logs to this file, rotated by size")
}
