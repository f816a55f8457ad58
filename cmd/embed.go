package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Beastly713/stegano/pkg/carrier"
	"github.com/Beastly713/stegano/pkg/pipeline"
)

var (
	embedOpts      codecOptions
	embedMessage   string
	embedCover     string
	embedOutput    string
	embedOverwrite bool
)

var embedCmd = &cobra.Command{
	Use:   "embed [file]",
	Short: "Hide a file or message inside an image",
	Long: `Embed hides a file (or a message given with -m) inside a cover image
and writes the result as a lossless PNG or BMP.

Without --cover a noise image just large enough for the payload is
generated (lsb only).

Example:
  stegano embed plans.pdf -c cat.png -o cat_stego.png -p hunter2 --encrypt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Validation
		if len(args) == 0 && embedMessage == "" {
			return fmt.Errorf("nothing to hide: give a file or --message")
		}
		if len(args) > 0 && embedMessage != "" {
			return fmt.Errorf("give either a file or --message, not both")
		}
		cfg, err := embedOpts.resolve(cmd)
		if err != nil {
			return err
		}

		// 2. Payload
		var payload []byte
		if len(args) > 0 {
			payload, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			cfg.Filename = filepath.Base(args[0])
		} else {
			payload = []byte(embedMessage)
		}

		// 3. Cover
		var cover *carrier.Carrier
		if embedCover != "" {
			if cover, err = loadCarrier(embedCover); err != nil {
				return err
			}
		}

		// 4. Output path, checked before the expensive part
		out := embedOutput
		if out == "" {
			out = defaultStegoName(embedCover)
		}
		if err := checkTarget(out, embedOverwrite); err != nil {
			return err
		}

		// 5. Embed
		stego, header, err := pipeline.EmbedCarrier(cover, payload, cfg)
		if err != nil {
			return fmt.Errorf("embedding failed: %w", err)
		}
		if err := saveCarrier(stego, out, true); err != nil {
			return err
		}

		logger.Info().
			Str("output", out).
			Int("payload", len(payload)).
			Uint32("stored", header.DataLength).
			Bool("compressed", header.Compressed()).
			Bool("encrypted", header.Encrypted()).
			Msg("payload hidden")
		fmt.Fprintf(cmd.OutOrStdout(), "Hid %d bytes in %s (%dx%d)\n", len(payload), out, stego.Width, stego.Height)
		return nil
	},
}

// defaultStegoName derives the output name from the cover: cat.jpg becomes
// cat_stego.png. Lossy covers always become PNG.
func defaultStegoName(cover string) string {
	if cover == "" {
		return "stego.png"
	}
	ext := filepath.Ext(cover)
	base := strings.TrimSuffix(cover, ext)
	if !strings.EqualFold(ext, ".bmp") {
		ext = ".png"
	}
	return base + "_stego" + ext
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedOpts.register(embedCmd, true)
	embedCmd.Flags().StringVarP(&embedMessage, "message", "m", "", "Hide this text instead of a file")
	embedCmd.Flags().StringVarP(&embedCover, "cover", "c", "", "Cover image (png, bmp or jpg); a noise image is generated when omitted")
	embedCmd.Flags().StringVarP(&embedOutput, "output", "o", "", "Output image, .png or .bmp (default: <cover>_stego.png)")
	embedCmd.Flags().BoolVar(&embedOverwrite, "overwrite", false, "Overwrite the output file if present")
}
