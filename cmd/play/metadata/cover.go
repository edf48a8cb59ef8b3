package metadata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
)

var ErrInvalidDataURL = errors.New("invalid data URL")

// DataURL encodes image bytes as an inline data URL.
func DataURL(format string, data []byte) string {
	if format == "" {
		format = "application/octet-stream"
	}
	return "data:" + format + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL is the inverse of DataURL. Only base64 payloads are supported.
func DecodeDataURL(url string) (format string, data []byte, err error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	format, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURL, err)
	}
	return format, data, nil
}

// DefaultCoverURL is the placeholder shown when a track has no cover art:
// a small dark gradient PNG.
var DefaultCoverURL = sync.OnceValue(func() string {
	const size = 32
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := uint8(40 + (x+y)*60/(2*size))
			img.Set(x, y, color.RGBA{R: v, G: v, B: v + 20, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return DataURL("image/png", buf.Bytes())
})
