package jukebox

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
	"github.com/samber/lo"
)

// SupportedExtensions lists the formats decode understands.
var SupportedExtensions = []string{".mp3", ".wav"}

// IsSupported reports whether name has a playable extension.
func IsSupported(name string) bool {
	return lo.Contains(SupportedExtensions, strings.ToLower(filepath.Ext(name)))
}

// decode opens the track's in-memory data with the decoder matching its
// extension.
func decode(track *Track) (beep.StreamSeekCloser, beep.Format, error) {
	reader := bytes.NewReader(track.Data)
	switch strings.ToLower(filepath.Ext(track.Name)) {
	case ".mp3":
		return mp3.Decode(nopCloser{reader})
	case ".wav":
		return wav.Decode(reader)
	default:
		return nil, beep.Format{}, ErrUnsupportedFormat
	}
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }

// ProbeDuration decodes just enough of the track to report its length.
func ProbeDuration(track *Track) (time.Duration, error) {
	streamer, format, err := decode(track)
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
