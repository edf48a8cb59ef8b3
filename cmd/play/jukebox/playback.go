package jukebox

import (
	"math"
	"time"
)

// TogglePlayPause resumes a paused track or pauses a playing one.
func (j *Jukebox) TogglePlayPause() Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	var u Update
	if j.state == StateEmpty || j.playlist.Len() == 0 {
		return u
	}

	if j.media.Paused() {
		if err := j.media.Play(); err != nil {
			j.log.Warn("failed to resume playback", "error", err)
			u.add(ShowError{Err: err})
			return u
		}
		j.state = StatePlaying
		u.add(ShowPlaying{Playing: true})
		return u
	}

	j.media.Pause()
	j.state = StatePaused
	u.add(ShowPlaying{Playing: false})
	return u
}

// Next advances to the next track, wrapping around at the end.
func (j *Jukebox) Next() Update {
	return j.advance(Next)
}

// Prev goes back one track, wrapping around at the start.
func (j *Jukebox) Prev() Update {
	return j.advance(Prev)
}

func (j *Jukebox) advance(dir Direction) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.playlist.Advance(dir) {
		return Update{}
	}
	return j.loadLocked(j.playlist.Cursor())
}

// SetVolume applies a volume in [0,1] to the current and later tracks.
func (j *Jukebox) SetVolume(v float64) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if math.IsNaN(v) {
		return Update{}
	}
	v = min(max(v, 0), 1)
	j.volume = v
	j.media.SetVolume(v)

	var u Update
	u.add(ShowVolume{Volume: v})
	return u
}

// Volume returns the current volume.
func (j *Jukebox) Volume() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.volume
}

// Seek jumps to percent (0..100) of the current track. It does nothing while
// the duration is unknown.
func (j *Jukebox) Seek(percent float64) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state == StateEmpty || math.IsNaN(percent) {
		return Update{}
	}
	duration := j.media.Duration()
	if duration <= 0 {
		return Update{}
	}

	percent = min(max(percent, 0), 100)
	position := time.Duration(percent / 100 * float64(duration))
	if err := j.media.Seek(position); err != nil {
		j.log.Warn("seek failed", "position", position, "error", err)
		var u Update
		u.add(ShowError{Err: err})
		return u
	}

	var u Update
	u.add(j.progressLocked())
	return u
}

// TimeUpdate recomputes the progress display. Called periodically while the
// player runs.
func (j *Jukebox) TimeUpdate() Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state == StateEmpty {
		return Update{}
	}
	var u Update
	u.add(j.progressLocked())
	return u
}

func (j *Jukebox) progressLocked() ShowProgress {
	position := j.media.Position().Seconds()
	duration := j.media.Duration().Seconds()

	percent := 0.0
	if duration > 0 && !math.IsNaN(duration) && !math.IsInf(duration, 0) {
		percent = position / duration * 100
	}
	if math.IsNaN(percent) {
		percent = 0
	}
	percent = min(max(percent, 0), 100)

	return ShowProgress{
		Percent: percent,
		Elapsed: Format(position),
		Total:   Format(duration),
	}
}

// Ended applies the end-of-track policy: repeat restarts the same track,
// shuffle picks a uniformly random one (possibly the same), otherwise the
// next track plays. Stale generations are ignored.
func (j *Jukebox) Ended(generation uint64) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	// Ignore stale callbacks from tracks that were skipped or replaced
	if !j.currentLocked(generation) || j.playlist.Len() == 0 {
		return Update{}
	}

	switch {
	case j.repeat:
		var u Update
		if err := j.media.Seek(0); err != nil {
			j.log.Warn("restart failed", "error", err)
		}
		if err := j.media.Play(); err != nil {
			j.log.Warn("restart failed", "error", err)
			j.state = StatePaused
			u.add(ShowError{Err: err}, ShowPlaying{Playing: false})
			return u
		}
		j.state = StatePlaying
		u.add(ShowPlaying{Playing: true}, j.progressLocked())
		return u

	case j.shuffle:
		index := j.intn(j.playlist.Len())
		if err := j.playlist.JumpTo(index); err != nil {
			return Update{}
		}
		return j.loadLocked(index)

	default:
		j.playlist.Advance(Next)
		return j.loadLocked(j.playlist.Cursor())
	}
}

// SetShuffle enables or disables shuffle mode.
func (j *Jukebox) SetShuffle(enabled bool) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.shuffle = enabled
	var u Update
	u.add(ShowModes{Shuffle: j.shuffle, Repeat: j.repeat})
	return u
}

// ToggleShuffle toggles shuffle mode.
func (j *Jukebox) ToggleShuffle() Update {
	j.mu.Lock()
	enabled := !j.shuffle
	j.mu.Unlock()

	return j.SetShuffle(enabled)
}

// SetRepeat enables or disables repeat mode.
func (j *Jukebox) SetRepeat(enabled bool) Update {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.repeat = enabled
	var u Update
	u.add(ShowModes{Shuffle: j.shuffle, Repeat: j.repeat})
	return u
}

// ToggleRepeat toggles repeat mode.
func (j *Jukebox) ToggleRepeat() Update {
	j.mu.Lock()
	enabled := !j.repeat
	j.mu.Unlock()

	return j.SetRepeat(enabled)
}

// Status returns the current playback information.
func (j *Jukebox) Status() PlaybackInfo {
	j.mu.Lock()
	defer j.mu.Unlock()

	info := PlaybackInfo{
		State:       j.state,
		CurrentSong: j.playlist.Current(),
		QueueLength: j.playlist.Len(),
		QueueIndex:  j.playlist.Cursor(),
		Shuffle:     j.shuffle,
		Repeat:      j.repeat,
		Volume:      j.volume,
		Generation:  j.generation,
	}
	if j.state != StateEmpty {
		info.Position = j.media.Position()
		info.Duration = j.media.Duration()
	}
	return info
}

// IsPlaying returns true if a track is currently audible.
func (j *Jukebox) IsPlaying() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state != StateEmpty && !j.media.Paused()
}
