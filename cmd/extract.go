package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/pipeline"
)

var (
	extractOpts      codecOptions
	extractDest      string
	extractOutput    string
	extractOverwrite bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [image]",
	Short: "Recover a hidden file from an image",
	Long: `Extract reads the payload hidden in an image with the same password used
to embed it. Unless --algorithm is given, every algorithm is tried.

A hidden file is restored under its original name in the destination
directory. A hidden message (no file name) is printed to stdout unless
--output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := extractOpts.resolve(cmd)
		if err != nil {
			return err
		}

		c, err := loadCarrier(args[0])
		if err != nil {
			return err
		}

		res, err := pipeline.ExtractCarrier(c, cfg)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		logger.Info().Str("image", args[0]).Str("algorithm", string(res.Algorithm)).
			Str("filename", res.Header.Filename).Int("bytes", len(res.Data)).Msg("payload recovered")

		// Write Output
		out := extractOutput
		if out == "" && res.Header.Filename != "" {
			name := safeName(res.Header.Filename, args[0])
			if name != res.Header.Filename {
				logger.Warn().Str("stored", res.Header.Filename).Str("using", name).Msg("stored file name replaced")
			}
			out = filepath.Join(extractDest, name)
		}
		if out == "" {
			_, err := cmd.OutOrStdout().Write(res.Data)
			return err
		}

		if err := checkTarget(out, extractOverwrite); err != nil {
			return err
		}
		if err := os.WriteFile(out, res.Data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recovered %s (%d bytes)\n", out, len(res.Data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractOpts.register(extractCmd, false)
	extractCmd.Flags().StringVarP(&extractDest, "destination", "d", "", "Directory to write the recovered file")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Write the payload to this path instead of its stored name")
	extractCmd.Flags().BoolVar(&extractOverwrite, "overwrite", false, "Overwrite existing file if present")
}
