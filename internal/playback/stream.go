package playback

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"

	"github.com/sacredrosary/rosary-server/internal/domain"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// StreamLoader decodes MP3 files with beep and plays them into a clock
// driven sink: samples are pulled at real-time rate, so position and
// completion come from the decoder itself. It needs no audio device.
type StreamLoader struct {
	Opener Opener
	// Tick is how often samples are pulled (default 100ms).
	Tick   time.Duration
	Logger *slog.Logger
}

// Load implements Loader. Fetching and decoding run on a goroutine.
func (l *StreamLoader) Load(ctx context.Context, song domain.Song, sink Sink) (Resource, error) {
	if l.Opener == nil {
		return nil, fmt.Errorf("stream loader: no opener configured")
	}
	tick := l.Tick
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	r := &streamResource{sink: sink, tick: tick, volume: 1, logger: logger.OrDiscard(l.Logger)}

	go func() {
		src, err := l.Opener.Open(ctx, song.Path)
		if err != nil {
			sink.Failed(err)
			return
		}
		streamer, format, err := mp3.Decode(src)
		if err != nil {
			_ = src.Close()
			sink.Failed(fmt.Errorf("decode %s: %w", song.Path, err))
			return
		}
		if !r.attach(streamer, format) {
			return
		}
		sink.Ready(format.SampleRate.D(streamer.Len()).Seconds())
	}()
	return r, nil
}

// streamResource is a decoded track drained by a ticker while playing.
type streamResource struct {
	mu       sync.Mutex
	sink     Sink
	tick     time.Duration
	logger   *slog.Logger
	streamer beep.StreamSeekCloser
	format   beep.Format
	gain     *effects.Volume
	volume   float64
	level    float64
	stop     chan struct{}
	closed   bool
}

func newStreamResource(streamer beep.StreamSeekCloser, format beep.Format, sink Sink, tick time.Duration) *streamResource {
	r := &streamResource{sink: sink, tick: tick, volume: 1, logger: logger.Discard()}
	r.attach(streamer, format)
	return r
}

// attach installs the decoded stream unless the resource was closed while
// decoding, in which case the stream is closed and false returned.
func (r *streamResource) attach(streamer beep.StreamSeekCloser, format beep.Format) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		_ = streamer.Close()
		return false
	}
	r.streamer = streamer
	r.format = format
	r.gain = &effects.Volume{Streamer: streamer, Base: 2}
	r.applyVolumeLocked()
	return true
}

func (r *streamResource) Play() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.streamer == nil {
		return ErrNotReady
	}
	if r.stop != nil {
		return nil
	}
	if r.streamer.Position() >= r.streamer.Len() {
		if err := r.streamer.Seek(0); err != nil {
			return fmt.Errorf("rewind: %w", err)
		}
	}
	r.stop = make(chan struct{})
	go r.drain(r.stop)
	return nil
}

func (r *streamResource) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.haltLocked()
}

func (r *streamResource) Seek(seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.streamer == nil {
		return
	}
	n := r.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	n = max(0, min(n, r.streamer.Len()))
	if err := r.streamer.Seek(n); err != nil {
		r.logger.Debug("seek failed", "error", err)
		return
	}
	r.sink.Progress(r.positionLocked())
}

func (r *streamResource) SetVolume(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.volume = v
	r.applyVolumeLocked()
}

// Level returns the peak amplitude of the most recent tick.
func (r *streamResource) Level() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.level
}

func (r *streamResource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.haltLocked()
	if r.streamer != nil {
		return r.streamer.Close()
	}
	return nil
}

func (r *streamResource) haltLocked() {
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

func (r *streamResource) applyVolumeLocked() {
	if r.gain == nil {
		return
	}
	if r.volume <= 0 {
		r.gain.Silent = true
		return
	}
	r.gain.Silent = false
	r.gain.Volume = math.Log2(r.volume)
}

func (r *streamResource) positionLocked() float64 {
	return r.format.SampleRate.D(r.streamer.Position()).Seconds()
}

// drain pulls one tick worth of samples per tick until stopped or the
// stream runs out.
func (r *streamResource) drain(stop chan struct{}) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	last := time.Now()
	buf := make([][2]float64, 0)
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now

			r.mu.Lock()
			if r.stop != stop {
				r.mu.Unlock()
				return
			}
			want := r.format.SampleRate.N(elapsed)
			if want <= 0 {
				r.mu.Unlock()
				continue
			}
			if cap(buf) < want {
				buf = make([][2]float64, want)
			}
			n, ok := r.gain.Stream(buf[:want])
			r.level = peak(buf[:n])
			if err := r.streamer.Err(); err != nil {
				r.haltLocked()
				r.mu.Unlock()
				r.sink.Failed(err)
				return
			}
			pos := r.positionLocked()
			done := !ok || n < want
			if done {
				r.haltLocked()
			}
			r.mu.Unlock()

			r.sink.Progress(pos)
			if done {
				r.sink.Ended()
				return
			}
		}
	}
}

func peak(samples [][2]float64) float64 {
	var p float64
	for _, s := range samples {
		p = max(p, math.Abs(s[0]), math.Abs(s[1]))
	}
	return p
}
