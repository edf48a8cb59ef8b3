package jukebox

import (
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

// streamChain is decoder -> resampler -> volume -> ctrl. The resampler keeps
// its own end-of-stream state, so a chain that played out has to be rebuilt
// after the decoder is rewound.
type streamChain struct {
	volume *effects.Volume
	ctrl   *beep.Ctrl
}

// newStreamChain builds a paused chain over decoder, resampling from format
// to the output rate when they differ.
func newStreamChain(decoder beep.Streamer, format beep.Format, output beep.SampleRate, level float64) streamChain {
	source := decoder
	if format.SampleRate != output {
		source = beep.Resample(4, format.SampleRate, output, decoder)
	}

	volume := &effects.Volume{Streamer: source, Base: 2}
	applyLevel(volume, level)
	return streamChain{
		volume: volume,
		ctrl:   &beep.Ctrl{Streamer: volume, Paused: true},
	}
}

// applyLevel maps a linear level onto effects.Volume, whose Volume field is
// an exponent of Base.
func applyLevel(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}

// tapStreamer copies everything that passes through it into a Tap.
type tapStreamer struct {
	beep.Streamer
	tap *Tap
}

func (t *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Streamer.Stream(samples)
	t.tap.Write(samples[:n])
	return n, ok
}
