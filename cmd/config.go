package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/config"
)

var configOverwrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the defaults file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current defaults to the config file",
	Long: `Init saves the defaults in effect (built in, or loaded from an existing
file) as YAML, to --config or to stegano/stegano.yaml in the user config
directory. Edit the file afterwards to change what the flags default to.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if path == "" {
			return fmt.Errorf("no user config directory, give --config")
		}
		if err := checkTarget(path, configOverwrite); err != nil {
			return err
		}
		if err := config.Save(path, defaults); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		logger.Info().Str("path", path).Msg("config written")
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configOverwrite, "overwrite", false, "Replace an existing config file")
}
