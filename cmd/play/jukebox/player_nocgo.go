//go:build !((linux && cgo) || windows || darwin)

package jukebox

import (
	"sync"
	"time"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires CGO for native sound libraries.
const AudioAvailable = false

// Player is a silent media element for builds without cgo. Tracks are still
// decoded for their duration and the position follows the wall clock, so
// the rest of the player behaves as usual.
type Player struct {
	mu sync.Mutex

	loaded    bool
	duration  time.Duration
	offset    time.Duration // position at the last pause/seek
	startedAt time.Time
	playing   bool
	level     float64
	timer     *time.Timer
	onEnded   func()
	tap       *Tap
	epoch     uint64 // bumped whenever the pending end changes so fired timers are ignored
}

// NewPlayer creates a new silent player.
func NewPlayer() *Player {
	return &Player{level: 1, tap: NewTap(DefaultTapSize)}
}

func (p *Player) Load(track *Track, onEnded func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	streamer, format, err := decode(track)
	if err != nil {
		return err
	}
	p.duration = format.SampleRate.D(streamer.Len())
	streamer.Close()

	p.loaded = true
	p.onEnded = onEnded
	return nil
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return ErrNothingLoaded
	}
	if p.playing {
		return nil
	}
	if p.offset >= p.duration {
		p.offset = 0
	}
	p.playing = true
	p.startedAt = time.Now()
	p.scheduleEndLocked()
	return nil
}

// scheduleEndLocked arms the end-of-track timer (must be called with lock held).
func (p *Player) scheduleEndLocked() {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.epoch++
	epoch := p.epoch
	onEnded := p.onEnded
	p.timer = time.AfterFunc(p.duration-p.offset, func() {
		p.mu.Lock()
		if epoch != p.epoch || !p.playing {
			p.mu.Unlock()
			return
		}
		p.offset = p.duration
		p.playing = false
		p.mu.Unlock()

		if onEnded != nil {
			onEnded()
		}
	})
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return
	}
	p.offset = p.positionLocked()
	p.playing = false
	p.epoch++
	if p.timer != nil {
		p.timer.Stop()
	}
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.playing
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if !p.playing {
		return p.offset
	}
	return min(p.offset+time.Since(p.startedAt), p.duration)
}

func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *Player) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return nil
	}
	p.offset = min(max(d, 0), p.duration)
	if p.playing {
		p.startedAt = time.Now()
		p.scheduleEndLocked()
	}
	return nil
}

func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = v
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.epoch++
	p.loaded = false
	p.playing = false
	p.offset = 0
	p.duration = 0
	p.onEnded = nil
	p.tap.Reset()
}

// Tap stays silent in this build.
func (p *Player) Tap() *Tap { return p.tap }
