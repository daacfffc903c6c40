// Package playback implements the audio player state machine: one track
// at a time, asynchronous loading with a superseded-load guard, bounded
// retries, and autoplay gated on user interaction.
package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sacredrosary/rosary-server/internal/catalog"
	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// DefaultVolume is the volume of a fresh session.
const DefaultVolume = 0.8

// ErrNotLoaded is returned by Play when nothing is loaded.
var ErrNotLoaded = errors.New("playback: nothing loaded")

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("playback: session closed")

// Options configures a Session.
type Options struct {
	Catalog *catalog.Catalog
	Loader  Loader

	// Interaction gates autoplay. Nil means the user has not interacted.
	Interaction Interaction
	Policy      LoadPolicy

	// Volume is the initial volume; nil means DefaultVolume.
	Volume *float64
	// DefaultSong is loaded by TogglePlayPause before anything else was.
	DefaultSong string

	Logger *slog.Logger
}

// Session owns at most one audio resource and the state around it.
// It is safe for concurrent use. Listeners and ended callbacks run
// without the session lock held.
type Session struct {
	catalog     *catalog.Catalog
	loader      Loader
	interaction Interaction
	policy      LoadPolicy
	defaultSong string
	logger      *slog.Logger
	events      *eventQueue

	mu        sync.Mutex
	closed    bool
	gen       uint64
	res       Resource
	cancel    context.CancelFunc
	loadTimer *time.Timer
	retry     *time.Timer

	song          domain.Song
	status        Status
	position      float64
	duration      float64
	volume        float64
	shuffle       bool
	autoPlay      bool
	userRequested bool
	awaiting      bool
	attempt       int
	lastErr       *domainerrors.Error

	nextID    int
	listeners map[int]func(State)
	endedFns  map[int]func(songID string)
}

// NewSession creates an idle session.
func NewSession(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("playback: catalog is required")
	}
	if opts.Loader == nil {
		return nil, errors.New("playback: loader is required")
	}

	s := &Session{
		catalog:     opts.Catalog,
		loader:      opts.Loader,
		interaction: opts.Interaction,
		policy:      opts.Policy.normalized(),
		defaultSong: opts.DefaultSong,
		logger:      logger.OrDiscard(opts.Logger).With("component", "playback"),
		events:      newEventQueue(),
		volume:      DefaultVolume,
		listeners:   make(map[int]func(State)),
		endedFns:    make(map[int]func(string)),
	}
	if s.interaction == nil {
		s.interaction = &InteractionFlag{}
	}
	if opts.Volume != nil {
		s.volume = clamp(*opts.Volume, 0, 1)
	}
	if s.defaultSong == "" {
		if _, ok := s.catalog.GetByID(catalog.DefaultSongID); ok {
			s.defaultSong = catalog.DefaultSongID
		} else {
			s.defaultSong = s.catalog.First()
		}
	}
	return s, nil
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func unregisters it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// OnSongEnded registers fn to run when a track plays to completion. The
// session never advances on its own; callers do it from here.
func (s *Session) OnSongEnded(fn func(songID string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.endedFns[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.endedFns, id)
		s.mu.Unlock()
	}
}

// Load releases the current resource and starts loading songID. autoPlay
// records whether playback should start once metadata is available.
func (s *Session) Load(songID string, autoPlay bool) {
	s.mutate(func() bool {
		s.loadLocked(songID, autoPlay, false)
		return true
	})
}

// Play starts playback. It is a no-op while playing and queues the start
// while loading. ErrNotLoaded is returned when idle or after an error.
func (s *Session) Play() error {
	var err error
	s.mutate(func() bool {
		switch s.status {
		case StatusPlaying:
			return false
		case StatusIdle, StatusError:
			err = ErrNotLoaded
			return false
		case StatusLoading:
			s.autoPlay = true
			s.userRequested = true
			return true
		case StatusEnded:
			s.res.Seek(0)
			s.position = 0
		}
		s.startLocked()
		return true
	})
	if s.isClosed() {
		return ErrClosed
	}
	return err
}

// Pause stops playback. While loading it cancels a queued start.
func (s *Session) Pause() {
	s.mutate(func() bool {
		switch s.status {
		case StatusPlaying:
			s.res.Pause()
			s.status = StatusPaused
			return true
		case StatusLoading:
			changed := s.autoPlay
			s.autoPlay, s.userRequested = false, false
			return changed
		}
		return false
	})
}

// TogglePlayPause pauses when playing and plays otherwise. With nothing
// loaded it loads the current (or default) song with autoplay.
func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	status := s.status
	s.mu.Unlock()

	switch status {
	case StatusIdle, StatusError:
		s.mutate(func() bool {
			id := s.song.ID
			if id == "" {
				id = s.defaultSong
			}
			s.loadLocked(id, true, true)
			return true
		})
	case StatusPlaying:
		s.Pause()
	default:
		_ = s.Play()
	}
}

// SetVolume sets the volume, clamped to [0,1].
func (s *Session) SetVolume(v float64) {
	s.mutate(func() bool {
		s.volume = clamp(v, 0, 1)
		if s.res != nil {
			s.res.SetVolume(s.volume)
		}
		return true
	})
}

// SeekTo moves to t seconds, clamped to [0,duration]. It does nothing
// while the duration is unknown.
func (s *Session) SeekTo(t float64) {
	s.mutate(func() bool {
		if !s.status.Ready() || s.res == nil {
			return false
		}
		t = clamp(t, 0, s.duration)
		s.res.Seek(t)
		s.position = t
		if s.status == StatusEnded && t < s.duration {
			s.status = StatusPaused
		}
		return true
	})
}

// ToggleShuffle flips the shuffle flag and returns the new value. The
// current track is unaffected.
func (s *Session) ToggleShuffle() bool {
	var on bool
	s.mutate(func() bool {
		s.shuffle = !s.shuffle
		on = s.shuffle
		return true
	})
	return on
}

// Next loads and autoplays the song after the current one. Shuffle is
// used when either shuffle or the session flag is set.
func (s *Session) Next(shuffle bool) {
	s.mutate(func() bool {
		id := s.catalog.Next(s.song.ID, shuffle || s.shuffle)
		s.loadLocked(id, true, false)
		return true
	})
}

// Previous loads and autoplays the song before the current one.
func (s *Session) Previous() {
	s.mutate(func() bool {
		id := s.catalog.Previous(s.song.ID)
		s.loadLocked(id, true, false)
		return true
	})
}

// Close releases the resource and stops event delivery.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.releaseLocked()
	s.status = StatusIdle
	s.mu.Unlock()

	s.events.stop()
	return nil
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// mutate runs fn under the lock and, when it reports a change, notifies
// listeners after unlocking.
func (s *Session) mutate(fn func() bool) {
	s.mu.Lock()
	if s.closed || !fn() {
		s.mu.Unlock()
		return
	}
	st := s.snapshotLocked()
	ls := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		l(st)
	}
}

func (s *Session) snapshotLocked() State {
	return State{
		CurrentSong:     s.song.ID,
		Status:          s.status,
		Playing:         s.status == StatusPlaying,
		Position:        s.position,
		Duration:        s.duration,
		Volume:          s.volume,
		Loading:         s.status == StatusLoading,
		Shuffle:         s.shuffle,
		AwaitingGesture: s.awaiting,
		Attempt:         s.attempt,
		LastError:       s.lastErr,
	}
}

func (s *Session) loadLocked(id string, autoPlay, userRequested bool) {
	s.releaseLocked()

	song, ok := s.catalog.GetByID(id)
	if !ok {
		s.status = StatusError
		s.lastErr = domainerrors.ErrSongNotFound.WithDetails(map[string]string{"songId": id})
		s.awaiting = false
		s.logger.Warn("song not found", "song", id)
		return
	}

	s.song = song
	s.status = StatusLoading
	s.position, s.duration = 0, 0
	s.autoPlay = autoPlay
	s.userRequested = autoPlay && userRequested
	s.awaiting = false
	s.attempt = 0
	s.lastErr = nil
	s.logger.Debug("loading song", "song", song.ID, "autoplay", autoPlay)
	s.beginAttemptLocked()
}

// beginAttemptLocked asks the loader for the current song and arms the
// load timeout. Every event it can produce is tagged with the generation
// current at this point.
func (s *Session) beginAttemptLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen := s.gen
	song := s.song

	res, err := s.loader.Load(ctx, song, &binding{s: s, gen: gen})
	if err != nil {
		s.loadFailedLocked(err)
		return
	}
	s.res = res
	res.SetVolume(s.volume)

	s.loadTimer = time.AfterFunc(s.policy.ExpectedLoadTime(song), func() {
		s.events.push(func() {
			s.handle(gen, func() bool {
				if s.status != StatusLoading {
					return false
				}
				s.logger.Warn("song load timed out", "song", song.ID, "attempt", s.attempt)
				s.loadFailedLocked(context.DeadlineExceeded)
				return true
			})
		})
	})
}

// loadFailedLocked retries the current song when the policy allows and
// otherwise settles in StatusError.
func (s *Session) loadFailedLocked(cause error) {
	s.releaseLocked()

	if s.attempt < s.policy.MaxRetries {
		s.attempt++
		s.status = StatusLoading
		gen := s.gen
		delay := s.policy.RetryDelay(s.attempt)
		s.logger.Info("retrying song load", "song", s.song.ID, "attempt", s.attempt, "delay", delay, "error", cause)
		s.retry = time.AfterFunc(delay, func() {
			s.events.push(func() {
				s.handle(gen, func() bool {
					s.beginAttemptLocked()
					return true
				})
			})
		})
		return
	}

	s.status = StatusError
	s.autoPlay, s.userRequested, s.awaiting = false, false, false
	s.lastErr = domainerrors.Wrap(cause, domainerrors.CodeResourceLoadFailed, "audio could not be loaded").
		WithDetails(map[string]string{"songId": s.song.ID})
	s.logger.Warn("song load failed", "song", s.song.ID, "error", cause)
}

// startLocked asks the resource to play and classifies the outcome.
func (s *Session) startLocked() {
	s.awaiting = false
	err := s.res.Play()
	switch {
	case err == nil:
		s.status = StatusPlaying
		s.lastErr = nil
	case errors.Is(err, ErrAutoplayBlocked):
		s.status = StatusPaused
		s.awaiting = true
		s.lastErr = domainerrors.ErrPlaybackStartBlocked.WithCause(err)
	default:
		s.releaseLocked()
		s.status = StatusError
		s.lastErr = domainerrors.Wrap(err, domainerrors.CodePlaybackStartFailed, "playback could not start").
			WithDetails(map[string]string{"songId": s.song.ID})
		s.logger.Warn("playback start failed", "song", s.song.ID, "error", err)
	}
}

// releaseLocked detaches and closes the current resource. Bumping the
// generation makes every event already in flight for it stale.
func (s *Session) releaseLocked() {
	s.gen++
	if s.loadTimer != nil {
		s.loadTimer.Stop()
		s.loadTimer = nil
	}
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.res != nil {
		if err := s.res.Close(); err != nil {
			s.logger.Debug("closing resource", "song", s.song.ID, "error", err)
		}
		s.res = nil
	}
}

// handle applies an asynchronous event if gen is still current.
func (s *Session) handle(gen uint64, fn func() bool) {
	s.mutate(func() bool {
		if gen != s.gen {
			return false
		}
		return fn()
	})
}

func (s *Session) onReady(duration float64) bool {
	if s.status != StatusLoading {
		if duration > 0 && s.duration != duration {
			s.duration = duration
			return true
		}
		return false
	}
	if s.loadTimer != nil {
		s.loadTimer.Stop()
		s.loadTimer = nil
	}
	s.status = StatusPaused
	s.duration = max(duration, 0)
	s.attempt = 0

	if s.autoPlay {
		s.autoPlay = false
		if s.userRequested || s.interaction.Interacted() {
			s.startLocked()
		} else {
			s.awaiting = true
			s.logger.Debug("autoplay deferred until user gesture", "song", s.song.ID)
		}
	}
	s.userRequested = false
	return true
}

func (s *Session) onProgress(position float64) bool {
	if !s.status.Ready() {
		return false
	}
	position = max(position, 0)
	if s.duration > 0 {
		position = min(position, s.duration)
	}
	if position == s.position {
		return false
	}
	s.position = position
	return true
}

func (s *Session) onEnded() (bool, []func(string), string) {
	if s.status != StatusPlaying && s.status != StatusPaused {
		return false, nil, ""
	}
	s.status = StatusEnded
	s.position = s.duration

	fns := make([]func(string), 0, len(s.endedFns))
	for _, fn := range s.endedFns {
		fns = append(fns, fn)
	}
	return true, fns, s.song.ID
}

func (s *Session) onFailed(err error) bool {
	if s.status == StatusLoading {
		s.loadFailedLocked(err)
		return true
	}
	if s.status == StatusError || s.status == StatusIdle {
		return false
	}
	s.releaseLocked()
	s.status = StatusError
	s.lastErr = domainerrors.Wrap(err, domainerrors.CodeResourceLoadFailed, "audio stream failed").
		WithDetails(map[string]string{"songId": s.song.ID})
	s.logger.Warn("audio stream failed", "song", s.song.ID, "error", err)
	return true
}

// binding is the Sink handed to a loader. It forwards events through the
// queue tagged with the generation it was created for.
type binding struct {
	s   *Session
	gen uint64
}

func (b *binding) Ready(duration float64) {
	b.s.events.push(func() {
		b.s.handle(b.gen, func() bool { return b.s.onReady(duration) })
	})
}

func (b *binding) Progress(position float64) {
	b.s.events.push(func() {
		b.s.handle(b.gen, func() bool { return b.s.onProgress(position) })
	})
}

func (b *binding) Ended() {
	b.s.events.push(func() {
		var (
			fns  []func(string)
			song string
		)
		b.s.handle(b.gen, func() bool {
			var changed bool
			changed, fns, song = b.s.onEnded()
			return changed
		})
		for _, fn := range fns {
			fn(song)
		}
	})
}

func (b *binding) Failed(err error) {
	b.s.events.push(func() {
		b.s.handle(b.gen, func() bool { return b.s.onFailed(err) })
	})
}

func clamp(v, lo, hi float64) float64 {
	if v != v { // NaN
		return lo
	}
	return max(lo, min(v, hi))
}
