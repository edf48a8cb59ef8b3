package jukebox

import (
	"errors"
	"sync"
	"time"
)

// fakeMedia records calls instead of producing sound.
type fakeMedia struct {
	mu sync.Mutex

	loaded   *Track
	onEnded  func()
	paused   bool
	position time.Duration
	duration time.Duration
	volume   float64
	loads    int
	stops    int
	seeks    []time.Duration
	failLoad map[string]bool
	tap      *Tap
}

func newFakeMedia(duration time.Duration) *fakeMedia {
	return &fakeMedia{
		paused:   true,
		duration: duration,
		volume:   1,
		failLoad: map[string]bool{},
		tap:      NewTap(64),
	}
}

func (f *fakeMedia) Load(track *Track, onEnded func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoad[track.Name] {
		return errors.New("corrupt")
	}
	f.loaded = track
	f.onEnded = onEnded
	f.paused = true
	f.position = 0
	f.loads++
	return nil
}

func (f *fakeMedia) Play() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded == nil {
		return ErrNothingLoaded
	}
	f.paused = false
	return nil
}

func (f *fakeMedia) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paused = true
}

func (f *fakeMedia) Paused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

func (f *fakeMedia) Position() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeMedia) Duration() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded == nil {
		return 0
	}
	return f.duration
}

func (f *fakeMedia) Seek(d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded == nil {
		return ErrNothingLoaded
	}
	f.position = d
	f.seeks = append(f.seeks, d)
	return nil
}

func (f *fakeMedia) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
}

func (f *fakeMedia) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeMedia) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loaded = nil
	f.onEnded = nil
	f.paused = true
	f.position = 0
	f.stops++
}

func (f *fakeMedia) Tap() *Tap { return f.tap }

// end simulates the loaded track playing to its end.
func (f *fakeMedia) end() {
	f.mu.Lock()
	fn := f.onEnded
	f.paused = true
	f.position = f.duration
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *fakeMedia) current() *Track {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

var _ Media = (*fakeMedia)(nil)
