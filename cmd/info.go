package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/format"
	"github.com/Beastly713/stegano/pkg/pipeline"
)

var infoOpts codecOptions

var infoCmd = &cobra.Command{
	Use:   "info [image]",
	Short: "Show what is hidden in an image without extracting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := infoOpts.resolve(cmd)
		if err != nil {
			return err
		}
		c, err := loadCarrier(args[0])
		if err != nil {
			return err
		}

		alg := cfg.Algorithm
		var header *format.Header
		if alg == pipeline.AlgorithmAuto {
			alg, header, err = pipeline.DetectCarrier(c, cfg)
		} else {
			header, err = pipeline.InspectCarrier(c, cfg)
		}
		if err != nil {
			return err
		}

		name := header.Filename
		if name == "" {
			name = "(message)"
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Algorithm: %s\n", alg)
		fmt.Fprintf(w, "File:      %s\n", name)
		fmt.Fprintf(w, "Stored:    %d bytes\n", header.DataLength)
		fmt.Fprintf(w, "Bits:      %d per channel\n", header.BitsPerChannel)
		fmt.Fprintf(w, "Filters:   %s\n", filterNames(header))
		fmt.Fprintf(w, "Version:   %d\n", header.Version)
		return nil
	},
}

func filterNames(h *format.Header) string {
	var names []string
	if h.Compressed() {
		names = append(names, "gzip")
	}
	if h.Encrypted() {
		names = append(names, "aes-gcm")
	}
	if h.Redundant() {
		names = append(names, "reed-solomon")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoOpts.register(infoCmd, false)
}
