package play

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/karaniscooked/music-player/cmd/play/metadata"
	"github.com/karaniscooked/music-player/cmd/play/visualizer"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

// renderCover draws a cover art data URL as a width x rows half-block
// thumbnail. Undecodable images fall back to the placeholder cover.
func renderCover(dataURL string, width, rows int) string {
	out, err := coverThumbnail(dataURL, width, rows)
	if err == nil {
		return out
	}
	slog.Debug("cannot render cover, using placeholder", "error", err)
	out, err = coverThumbnail(metadata.DefaultCoverURL(), width, rows)
	if err != nil {
		return ""
	}
	return out
}

func coverThumbnail(dataURL string, width, rows int) (string, error) {
	_, data, err := metadata.DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	height := rows * 2
	scaled := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	bounds := scaled.Bounds()

	canvas := visualizer.NewCanvas(width, height, colorful.Color{})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c, ok := colorful.MakeColor(scaled.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				continue // fully transparent
			}
			canvas.FillRect(x, y, 1, 1, c)
		}
	}
	return canvas.Render(), nil
}
