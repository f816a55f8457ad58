package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/pipeline"
	"github.com/Beastly713/stegano/pkg/stego"
)

var (
	capacityOpts codecOptions
	capacityFile string
)

var capacityCmd = &cobra.Command{
	Use:   "capacity [image]",
	Short: "Calculate how much an image can hide",
	Long: `Capacity lists the raw capacity of an image for each algorithm and a
few bit widths, and the largest payload that fits next to the header.

With --file the payload is run through the configured filters and the
command reports whether it would fit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := capacityOpts.resolve(cmd)
		if err != nil {
			return err
		}
		c, err := loadCarrier(args[0])
		if err != nil {
			return err
		}

		// 1. Optional payload to check
		var (
			name string
			need int
		)
		if capacityFile != "" {
			payload, err := os.ReadFile(capacityFile)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			cfg.Filename = filepath.Base(capacityFile)
			_, need, err = pipeline.Measure(payload, cfg)
			if err != nil {
				return err
			}
			name = cfg.Filename
		}

		// 2. Table
		wtr := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(wtr, "Image: %dx%d\n\n", c.Width, c.Height)
		fmt.Fprintln(wtr, "Algorithm\tBits/Channel\tCapacity (Bits)\tPayload (Bytes)")
		fmt.Fprintln(wtr, "---------\t------------\t---------------\t---------------")

		for _, bits := range []int{1, 2, 3, 4} {
			printCap(wtr, c, cfg, stego.AlgorithmLSB, bits)
		}
		printCap(wtr, c, cfg, stego.AlgorithmDCT, 1)
		if err := wtr.Flush(); err != nil {
			return err
		}

		// 3. Verdict for the configured session
		if name != "" {
			_, free, err := pipeline.Capacity(c, cfg)
			if err != nil {
				return err
			}
			verdict := "fits"
			if need > free {
				verdict = "does NOT fit"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %d bytes after filters, %s (%s, %d bits per channel, %d free)\n",
				name, need, verdict, cfg.Algorithm, cfg.BitsPerChannel, free)
		}
		return nil
	},
}

func printCap(wtr *tabwriter.Writer, c *carrier.Carrier, cfg pipeline.Config, alg stego.Algorithm, bits int) {
	cfg.Algorithm = alg
	cfg.BitsPerChannel = bits
	total, payload, err := pipeline.Capacity(c, cfg)
	if err != nil {
		// dctlsb needs at least one 8x8 block
		logger.Debug().Err(err).Str("algorithm", string(alg)).Msg("capacity unavailable")
		fmt.Fprintf(wtr, "%s\t%d\t-\t-\n", alg, bits)
		return
	}
	fmt.Fprintf(wtr, "%s\t%d\t%d\t%d\n", alg, bits, total, payload)
}

func init() {
	rootCmd.AddCommand(capacityCmd)

	capacityOpts.register(capacityCmd, true)
	capacityCmd.Flags().StringVarP(&capacityFile, "file", "f", "", "Check whether this file would fit")
}
