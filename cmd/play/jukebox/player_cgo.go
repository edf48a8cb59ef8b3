//go:build (linux && cgo) || windows || darwin

package jukebox

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

// Player handles the actual audio output using beep. The chain is
// decoder -> resampler -> volume -> ctrl -> tap -> speaker, so the tap sees
// silence while paused.
type Player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	streamer    beep.StreamSeekCloser
	format      beep.Format
	volume      *effects.Volume
	ctrl        *beep.Ctrl
	queued      bool // ctrl is currently in the speaker mixer
	ended       bool // ctrl played to its end
	level       float64
	tap         *Tap
	onEnded     func()
}

// NewPlayer creates the speaker-backed media element.
func NewPlayer() *Player {
	return &Player{
		sampleRate: beep.SampleRate(44100), // Standard sample rate
		level:      1,
		tap:        NewTap(DefaultTapSize),
	}
}

// initSpeaker initializes the speaker if not already done.
// Must be called with lock held.
func (p *Player) initSpeaker() error {
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	p.initialized = true
	return nil
}

// Load decodes the track from memory and leaves it paused at the start.
func (p *Player) Load(track *Track, onEnded func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	streamer, format, err := decode(track)
	if err != nil {
		return err
	}

	if err := p.initSpeaker(); err != nil {
		streamer.Close()
		return err
	}

	p.streamer = streamer
	p.format = format
	p.onEnded = onEnded
	p.rebuildLocked()
	p.queued = false
	p.ended = false
	return nil
}

// Play starts or resumes playback. After the track ended it is queued again
// from wherever the position was left, or from the start if it is at the end.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return ErrNothingLoaded
	}

	if !p.queued {
		if p.ended {
			speaker.Lock()
			if p.streamer.Position() >= p.streamer.Len() {
				_ = p.streamer.Seek(0)
			}
			speaker.Unlock()
			// the old resampler stays at its end even after a rewind
			p.rebuildLocked()
		}
		p.ended = false
		p.queued = true

		ctrl := p.ctrl
		onEnded := p.onEnded
		speaker.Play(beep.Seq(&tapStreamer{Streamer: ctrl, tap: p.tap}, beep.Callback(func() {
			// Runs on the speaker goroutine with the speaker lock held, so
			// hand off before touching p.mu.
			go func() {
				if p.markEnded(ctrl) && onEnded != nil {
					onEnded()
				}
			}()
		})))
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// rebuildLocked puts a fresh chain over the current decoder. Must be called
// with lock held and with the old ctrl out of the mixer.
func (p *Player) rebuildLocked() {
	chain := newStreamChain(p.streamer, p.format, p.sampleRate, p.level)
	p.volume = chain.volume
	p.ctrl = chain.ctrl
}

// markEnded records that ctrl finished. It reports false if ctrl has been
// replaced in the meantime.
func (p *Player) markEnded(ctrl *beep.Ctrl) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl != ctrl {
		return false
	}
	p.ended = true
	p.queued = false
	return true
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		speaker.Unlock()
	}
}

// Paused reports whether nothing is audible right now.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil || p.ended || !p.queued {
		return true
	}

	speaker.Lock()
	paused := p.ctrl.Paused
	speaker.Unlock()
	return paused
}

// Stop stops playback completely.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked stops playback (must be called with lock held).
func (p *Player) stopLocked() {
	if p.initialized {
		speaker.Clear()
	}
	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.queued = false
	p.ended = false
	p.onEnded = nil
	p.tap.Reset()
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}

	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()

	return p.format.SampleRate.D(pos)
}

// Duration returns the total duration of the current track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return 0
	}

	return p.format.SampleRate.D(p.streamer.Len())
}

// Seek sets the playback position, clamped to the track.
func (p *Player) Seek(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streamer == nil {
		return nil
	}

	speaker.Lock()
	defer speaker.Unlock()

	samples := p.format.SampleRate.N(d)
	samples = min(max(samples, 0), p.streamer.Len())
	return p.streamer.Seek(samples)
}

// SetVolume sets the linear volume in [0,1] for this and later tracks.
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = v
	if p.volume != nil {
		speaker.Lock()
		applyLevel(p.volume, v)
		speaker.Unlock()
	}
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *Player) Tap() *Tap { return p.tap }
