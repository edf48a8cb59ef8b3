package visualizer

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// sineSource produces a sine wave centred on one FFT bin, or silence.
type sineSource struct {
	mu     sync.Mutex
	bin    int
	size   int
	silent bool
}

func (s *sineSource) Samples(dst []float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range dst {
		if s.silent {
			dst[i] = 0
			continue
		}
		dst[i] = math.Sin(2 * math.Pi * float64(s.bin) * float64(i) / float64(s.size))
	}
	return len(dst)
}

func (s *sineSource) setSilent(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silent = v
}

func TestNewAnalyzerFallbacks(t *testing.T) {
	tests := []struct {
		size      int
		smoothing float64
		wantBins  int
	}{
		{2048, 0.8, 1024},
		{256, 0.5, 128},
		{1000, 0.8, DefaultFFTSize / 2},
		{16, 0.8, DefaultFFTSize / 2},
		{0, -1, DefaultFFTSize / 2},
	}
	for _, tt := range tests {
		a := NewAnalyzer(&sineSource{silent: true}, tt.size, tt.smoothing)
		if a.Bins() != tt.wantBins {
			t.Errorf("NewAnalyzer(%d).Bins() = %d, want %d", tt.size, a.Bins(), tt.wantBins)
		}
		if a.smoothing < 0 || a.smoothing >= 1 {
			t.Errorf("smoothing %v not normalised", a.smoothing)
		}
	}
}

func TestAnalyzerSilence(t *testing.T) {
	a := NewAnalyzer(&sineSource{silent: true}, 256, 0.8)
	dst := make([]byte, a.Bins())
	if n := a.ByteFrequencyData(dst); n != 128 {
		t.Fatalf("n = %d", n)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("bin %d = %d on silence", i, v)
		}
	}
}

func TestAnalyzerPeakAndSmoothing(t *testing.T) {
	src := &sineSource{bin: 64, size: 2048}
	a := NewAnalyzer(src, 2048, 0.8)
	dst := make([]byte, a.Bins())

	a.ByteFrequencyData(dst)
	if dst[64] != 255 {
		t.Errorf("peak bin = %d, want 255", dst[64])
	}
	if dst[600] >= 128 {
		t.Errorf("far bin = %d, expected little energy", dst[600])
	}

	// Smoothing keeps the bar up for a while after the sound stops.
	src.setSilent(true)
	a.ByteFrequencyData(dst)
	if dst[64] == 0 {
		t.Error("smoothing should keep energy for one frame")
	}
	for i := 0; i < 200; i++ {
		a.ByteFrequencyData(dst)
	}
	if dst[64] != 0 {
		t.Errorf("bar should decay to 0, got %d", dst[64])
	}
}

func TestToByte(t *testing.T) {
	tests := []struct {
		mag  float64
		want byte
	}{
		{0, 0},
		{-1, 0},
		{1e-6, 0},                     // -120 dB
		{1, 255},                      // 0 dB
		{math.Pow(10, -65.0/20), 127}, // midway
		{math.Pow(10, -29.0/20), 255}, // above the range
	}
	for _, tt := range tests {
		got := toByte(tt.mag)
		if got != tt.want && !(tt.want == 127 && (got == 127 || got == 128)) {
			t.Errorf("toByte(%g) = %d, want %d", tt.mag, got, tt.want)
		}
	}
}

func TestCanvasFade(t *testing.T) {
	c := NewCanvas(2, 2, colorful.Color{})
	c.Fade(Background, FadeAlpha)

	p := c.At(0, 0)
	if math.Abs(p.R-0.05) > 1e-9 || math.Abs(p.G-0.05) > 1e-9 {
		t.Errorf("faded pixel = %+v", p)
	}

	for i := 0; i < 500; i++ {
		c.Fade(Background, FadeAlpha)
	}
	if !c.At(1, 1).AlmostEqualRgb(Background) {
		t.Errorf("repeated fades should converge to the background, got %+v", c.At(1, 1))
	}
}

func TestCanvasFillRectClips(t *testing.T) {
	red := colorful.Color{R: 1}
	c := NewCanvas(4, 4, Background)
	c.FillRect(2, 2, 10, 10, red)
	c.FillRect(-5, -5, 6, 6, red)

	tests := []struct {
		x, y int
		want colorful.Color
	}{
		{0, 0, red},
		{1, 1, Background},
		{2, 2, red},
		{3, 3, red},
		{3, 1, Background},
	}
	for _, tt := range tests {
		if got := c.At(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d,%d) = %+v, want %+v", tt.x, tt.y, got, tt.want)
		}
	}
	if got := c.At(10, 10); got != (colorful.Color{}) {
		t.Error("out of bounds should be black")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(5, 6, Background)
	lines := strings.Split(c.Render(), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for i, line := range lines {
		if n := strings.Count(line, "▀"); n != 5 {
			t.Errorf("line %d has %d cells", i, n)
		}
	}

	empty := NewCanvas(0, 0, Background)
	if empty.Render() != "" {
		t.Error("empty canvas should render nothing")
	}
}

func TestSessionFrameDrawsBars(t *testing.T) {
	s := NewSession(&sineSource{bin: 64, size: 2048}, 2048, 0.8, 80, 10)
	s.Frame()

	// 1024 bins on 80 columns: bin i starts at int(i*(80/1024*2.5+1)).
	want := colorful.Hsl(64, 1, 0.5)
	if got := s.Pixel(76, 9); !got.AlmostEqualRgb(want) {
		t.Errorf("bar pixel = %s, want %s", got.Hex(), want.Hex())
	}
	if got := s.Pixel(76, 0); !got.AlmostEqualRgb(want) {
		t.Errorf("full height bar expected, top pixel = %s", got.Hex())
	}
	if got := s.Pixel(0, 9); !got.AlmostEqualRgb(Background) {
		t.Errorf("bin 0 should be empty, got %s", got.Hex())
	}
	if s.Frames() != 1 {
		t.Errorf("frames = %d", s.Frames())
	}
}

func TestSessionFrameWhilePausedOnlyFades(t *testing.T) {
	s := NewSession(&sineSource{silent: true}, 256, 0.8, 10, 4)
	for i := 0; i < 3; i++ {
		s.Frame()
	}
	for x := 0; x < 10; x++ {
		if got := s.Pixel(x, 3); !got.AlmostEqualRgb(Background) {
			t.Fatalf("pixel %d = %s", x, got.Hex())
		}
	}
	if s.Frames() != 3 {
		t.Errorf("frames = %d", s.Frames())
	}
}

func TestSessionResize(t *testing.T) {
	s := NewSession(&sineSource{silent: true}, 256, 0.8, 10, 4)
	s.Resize(20, 8)
	if lines := strings.Split(s.Render(), "\n"); len(lines) != 4 {
		t.Errorf("lines = %d, want 4", len(lines))
	}
}

func TestLazyActivatesOnce(t *testing.T) {
	var created, started int
	var mu sync.Mutex
	lazy := NewLazy(func() *Session {
		mu.Lock()
		created++
		mu.Unlock()
		return NewSession(&sineSource{silent: true}, 256, 0.8, 4, 2)
	}, func(*Session) {
		mu.Lock()
		started++
		mu.Unlock()
	})

	if lazy.Session() != nil {
		t.Fatal("session must not exist before activation")
	}

	first, isNew := lazy.Activate()
	if first == nil || !isNew {
		t.Fatal("first activation should create the session")
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, isNew := lazy.Activate()
			if s != first || isNew {
				t.Error("later activations must return the same session")
			}
		}()
	}
	wg.Wait()

	if created != 1 || started != 1 {
		t.Errorf("created %d started %d, want 1 each", created, started)
	}
}

func TestLoopRunsOncePerTick(t *testing.T) {
	s := NewSession(&sineSource{silent: true}, 256, 0.8, 4, 2)
	var frames []string
	loop := &Loop{Session: s, OnFrame: func(f string) { frames = append(frames, f) }}

	ticks := make(chan time.Time)
	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background(), ticks) }()

	for i := 0; i < 3; i++ {
		ticks <- time.Now()
	}
	close(ticks)

	if err := <-done; err != nil {
		t.Fatalf("Run = %v", err)
	}
	if s.Frames() != 3 || len(frames) != 3 {
		t.Errorf("frames = %d, callbacks = %d", s.Frames(), len(frames))
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	s := NewSession(&sineSource{silent: true}, 256, 0.8, 4, 2)
	loop := &Loop{Session: s}

	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan time.Time)
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx, ticks) }()

	ticks <- time.Now()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	if s.Frames() != 1 {
		t.Errorf("frames = %d", s.Frames())
	}
}
