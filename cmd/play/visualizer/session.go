package visualizer

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// FadeAlpha is how much of the background each frame paints over.
	FadeAlpha = 0.05

	barScale = 2.5
	barGap   = 1
)

// Session pairs one analyzer with one canvas. There is exactly one per
// player.
type Session struct {
	mu       sync.Mutex
	analyzer *Analyzer
	canvas   *Canvas
	bins     []byte
	frames   uint64
}

// NewSession creates a session drawing src on a width x height pixel
// canvas.
func NewSession(src Source, fftSize int, smoothing float64, width, height int) *Session {
	analyzer := NewAnalyzer(src, fftSize, smoothing)
	return &Session{
		analyzer: analyzer,
		canvas:   NewCanvas(width, height, Background),
		bins:     make([]byte, analyzer.Bins()),
	}
}

// Resize changes the canvas size; the picture starts over.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.canvas.Width() && height == s.canvas.Height() {
		return
	}
	s.canvas.Resize(width, height, Background)
}

// Frame draws one frame: pull bins, fade, then one bar per bin.
func (s *Session) Frame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.analyzer.ByteFrequencyData(s.bins)
	s.canvas.Fade(Background, FadeAlpha)

	width, height := s.canvas.Width(), s.canvas.Height()
	if width == 0 || height == 0 || n == 0 {
		s.frames++
		return
	}

	barWidth := float64(width) / float64(n) * barScale
	cells := max(int(barWidth), 1)
	x := 0.0
	for i := 0; i < n && int(x) < width; i++ {
		barHeight := int(float64(s.bins[i]) / 255 * float64(height))
		if barHeight > 0 {
			hue := float64(i % 360)
			s.canvas.FillRect(int(x), height-barHeight, cells, barHeight, colorful.Hsl(hue, 1, 0.5))
		}
		x += barWidth + barGap
	}
	s.frames++
}

// Render returns the current picture.
func (s *Session) Render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Render()
}

// Frames returns how many frames have been drawn.
func (s *Session) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Pixel exposes a single canvas pixel.
func (s *Session) Pixel(x, y int) colorful.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.At(x, y)
}
