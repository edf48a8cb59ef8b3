// Package visualizer turns the live sample tap into frequency bars drawn on
// a terminal cell canvas.
package visualizer

import (
	"math"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	DefaultFFTSize   = 2048
	DefaultSmoothing = 0.8

	// Byte range mapping, same as a browser analyser node.
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Source supplies the most recent mono samples, oldest first, zero padded
// when fewer are available.
type Source interface {
	Samples(dst []float64) int
}

// Analyzer computes byte frequency magnitudes from a Source.
type Analyzer struct {
	mu sync.Mutex

	src       Source
	size      int
	smoothing float64
	window    []float64
	samples   []float64
	smoothed  []float64
}

// NewAnalyzer creates an analyzer over src. size must be a power of two of
// at least 32; anything else falls back to DefaultFFTSize. smoothing outside
// [0,1) falls back to DefaultSmoothing.
func NewAnalyzer(src Source, size int, smoothing float64) *Analyzer {
	if size < 32 || size&(size-1) != 0 {
		size = DefaultFFTSize
	}
	if smoothing < 0 || smoothing >= 1 || math.IsNaN(smoothing) {
		smoothing = DefaultSmoothing
	}
	return &Analyzer{
		src:       src,
		size:      size,
		smoothing: smoothing,
		window:    window.Blackman(size),
		samples:   make([]float64, size),
		smoothed:  make([]float64, size/2),
	}
}

// Bins is the number of frequency bins, half the FFT size.
func (a *Analyzer) Bins() int {
	return a.size / 2
}

// ByteFrequencyData fills dst with the current magnitudes scaled to 0..255
// and returns how many bins were written.
func (a *Analyzer) ByteFrequencyData(dst []byte) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.src.Samples(a.samples)
	for i := range a.samples {
		a.samples[i] *= a.window[i]
	}
	coeffs := fft.FFTReal(a.samples)

	n := min(len(dst), len(a.smoothed))
	scale := 1 / float64(a.size)
	for k := range a.smoothed {
		c := coeffs[k]
		mag := math.Hypot(real(c), imag(c)) * scale
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k < n {
			dst[k] = toByte(a.smoothed[k])
		}
	}
	return n
}

func toByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	v := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 255:
		return 255
	}
	return byte(v)
}
