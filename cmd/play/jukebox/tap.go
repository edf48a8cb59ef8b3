package jukebox

import "sync"

// DefaultTapSize holds a little under 200ms of audio at 44.1kHz.
const DefaultTapSize = 8192

// Tap keeps the most recent output samples, downmixed to mono, for the
// visualizer. Writing to it never alters the audio.
type Tap struct {
	mu     sync.Mutex
	buf    []float64
	pos    int
	filled bool
}

func NewTap(size int) *Tap {
	if size <= 0 {
		size = DefaultTapSize
	}
	return &Tap{buf: make([]float64, size)}
}

// Write records stereo frames.
func (t *Tap) Write(samples [][2]float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range samples {
		t.buf[t.pos] = (s[0] + s[1]) / 2
		t.pos++
		if t.pos == len(t.buf) {
			t.pos = 0
			t.filled = true
		}
	}
}

// Samples copies the latest len(dst) samples into dst, oldest first, and
// returns how many were real. The missing prefix is zero filled.
func (t *Tap) Samples(dst []float64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	available := t.pos
	if t.filled {
		available = len(t.buf)
	}
	n := min(len(dst), available)
	pad := len(dst) - n
	for i := 0; i < pad; i++ {
		dst[i] = 0
	}

	start := t.pos - n
	if start < 0 {
		start += len(t.buf)
	}
	for i := 0; i < n; i++ {
		dst[pad+i] = t.buf[(start+i)%len(t.buf)]
	}
	return n
}

// Reset forgets everything written so far.
func (t *Tap) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.buf {
		t.buf[i] = 0
	}
	t.pos = 0
	t.filled = false
}
