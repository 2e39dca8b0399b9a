package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/config"
	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		prompt string
		image  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a single image generation from the terminal",
		Long: `Sends an image and a prompt through the same relay used by /api/generate.

Generated images returned inline are written to --output; image URLs and
text replies are printed to stdout.`,
		Example: `  # Edit a local photo
  nanobanana generate --image cat.png --prompt "place the cat in a snowy mountain"

  # Use a remote image and choose the output file
  nanobanana generate --image https://example.com/cat.png --prompt "make it night" --output night.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			imageData, err := loadImage(image)
			if err != nil {
				return err
			}

			result, err := newRelay(cfg).Generate(cmd.Context(), imageData, prompt)
			if err != nil {
				return err
			}

			if text, ok := result.Text(); ok {
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}

			url, _ := result.Image()
			if !strings.HasPrefix(url, "data:") {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}

			img, err := providers.ParseDataURI(url)
			if err != nil {
				return fmt.Errorf("failed to decode generated image: %w", err)
			}
			if output == "" {
				output = "output" + extensionFor(img.MIMEType)
			}
			if err := os.WriteFile(output, img.Data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			slog.Info("Generated image saved", "path", output, "mime_type", img.MIMEType, "bytes", len(img.Data))
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Edit instructions in natural language")
	cmd.Flags().StringVar(&image, "image", "", "Path or http(s) URL of the source image")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Where to write an inline image result (default output.<ext>)")
	_ = cmd.MarkFlagRequired("prompt")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

// loadImage turns a local file into a data URI; URLs pass through.
func loadImage(source string) (string, error) {
	if strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://") {
		return source, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("image file is empty")
	}
	return providers.DataURI(http.DetectContentType(data), data), nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
