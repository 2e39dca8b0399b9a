package generation

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/Allen-Awesome/nanobanana-ai-clone/internal/providers"
)

func logImageDimensions(img *providers.Image) {
	width, height, err := imageDimensions(img.Data)
	if err != nil {
		slog.Warn("Failed to get image dimensions", "mime_type", img.MIMEType, "error", err)
		return
	}
	slog.Debug("Image received", "mime_type", img.MIMEType, "bytes", len(img.Data), "width", width, "height", height)
}

func imageDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
