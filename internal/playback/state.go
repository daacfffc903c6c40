package playback

import (
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
)

// Status is the lifecycle stage of a Session.
type Status int

const (
	// StatusIdle means no resource has been loaded.
	StatusIdle Status = iota
	// StatusLoading means a resource was requested and its metadata is pending.
	StatusLoading
	// StatusPaused is Ready/Paused: metadata is known and playback is stopped.
	StatusPaused
	// StatusPlaying is Ready/Playing.
	StatusPlaying
	// StatusEnded means the track played to completion.
	StatusEnded
	// StatusError means the last load or start failed. Only Load recovers.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusPaused:
		return "paused"
	case StatusPlaying:
		return "playing"
	case StatusEnded:
		return "ended"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Ready reports whether metadata is available (paused, playing or ended).
func (s Status) Ready() bool {
	return s == StatusPaused || s == StatusPlaying || s == StatusEnded
}

// State is a snapshot of a Session.
type State struct {
	CurrentSong string  `json:"currentSong,omitempty"`
	Status      Status  `json:"status"`
	Playing     bool    `json:"playing"`
	Position    float64 `json:"position"` // seconds
	Duration    float64 `json:"duration"` // seconds, 0 until metadata loads
	Volume      float64 `json:"volume"`
	Loading     bool    `json:"loading"`
	Shuffle     bool    `json:"shuffle"`

	// AwaitingGesture is set when an autoplay was deferred until the user
	// presses play. It is not an error.
	AwaitingGesture bool `json:"awaitingGesture"`

	// Attempt counts retries of the current load, 0 for the first try.
	Attempt int `json:"attempt"`

	LastError *domainerrors.Error `json:"lastError,omitempty"`
}

// ErrorKind returns the code of LastError, or "" when there is none.
func (s State) ErrorKind() domainerrors.Code {
	if s.LastError == nil {
		return ""
	}
	return s.LastError.Code
}
