package playback

import (
	"context"
	"errors"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

// ErrAutoplayBlocked is returned by Resource.Play when the platform refuses
// to start audio without a user gesture.
var ErrAutoplayBlocked = errors.New("playback: start blocked until user gesture")

// ErrNotReady is returned by Resource.Play before metadata is available.
var ErrNotReady = errors.New("playback: resource not ready")

// Resource is one loaded audio track. Methods may be called from any
// goroutine; they may report events to their Sink synchronously.
type Resource interface {
	Play() error
	Pause()
	Seek(seconds float64)
	SetVolume(v float64)
	// Close stops playback and releases the track. No events follow.
	Close() error
}

// Sink receives a resource's asynchronous events. Calls never block.
type Sink interface {
	// Ready reports that metadata is buffered and the duration is known.
	Ready(duration float64)
	// Progress reports the playback position in seconds.
	Progress(position float64)
	// Ended reports natural completion.
	Ended()
	// Failed reports a network, decode or format failure.
	Failed(err error)
}

// Loader begins fetching a song and returns its handle immediately.
// Completion is reported through sink. ctx is canceled when the load is
// superseded.
type Loader interface {
	Load(ctx context.Context, song domain.Song, sink Sink) (Resource, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, song domain.Song, sink Sink) (Resource, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, song domain.Song, sink Sink) (Resource, error) {
	return f(ctx, song, sink)
}
