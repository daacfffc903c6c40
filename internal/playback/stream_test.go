package playback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

// toneStreamer produces a constant signal of a fixed length.
type toneStreamer struct {
	mu     sync.Mutex
	amp    float64
	length int
	pos    int
	closed bool
}

func (s *toneStreamer) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(len(samples), s.length-s.pos)
	for i := range n {
		samples[i] = [2]float64{s.amp, -s.amp}
	}
	s.pos += n
	return n, n > 0
}

func (s *toneStreamer) Err() error { return nil }

func (s *toneStreamer) Len() int { return s.length }

func (s *toneStreamer) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

func (s *toneStreamer) Seek(p int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = p
	return nil
}

func (s *toneStreamer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// recordingSink captures the events a resource reports.
type recordingSink struct {
	mu       sync.Mutex
	ready    []float64
	progress []float64
	ended    int
	failed   []error
}

func (s *recordingSink) Ready(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = append(s.ready, d)
}

func (s *recordingSink) Progress(p float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, p)
}

func (s *recordingSink) Ended() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended++
}

func (s *recordingSink) Failed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, err)
}

func (s *recordingSink) endedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *recordingSink) failures() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.failed...)
}

var testFormat = beep.Format{SampleRate: 1000, NumChannels: 2, Precision: 2}

func TestStreamResource_PlaysToEnd(t *testing.T) {
	tone := &toneStreamer{amp: 0.5, length: 60}
	sink := &recordingSink{}
	r := newStreamResource(tone, testFormat, sink, 5*time.Millisecond)

	require.NoError(t, r.Play())
	require.Eventually(t, func() bool { return sink.endedCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	progress := append([]float64(nil), sink.progress...)
	sink.mu.Unlock()
	require.NotEmpty(t, progress)
	assert.InDelta(t, 0.06, progress[len(progress)-1], 1e-9)
	assert.IsNonDecreasing(t, progress)

	require.NoError(t, r.Play(), "replay after the end rewinds")
	require.Eventually(t, func() bool { return sink.endedCount() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestStreamResource_PauseStopsDraining(t *testing.T) {
	tone := &toneStreamer{amp: 0.5, length: 1_000_000}
	sink := &recordingSink{}
	r := newStreamResource(tone, testFormat, sink, 5*time.Millisecond)

	require.NoError(t, r.Play())
	require.Eventually(t, func() bool { return tone.Position() > 0 }, time.Second, time.Millisecond)
	r.Pause()
	at := tone.Position()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, at, tone.Position())
	assert.Zero(t, sink.endedCount())
}

func TestStreamResource_Volume(t *testing.T) {
	tone := &toneStreamer{amp: 0.5, length: 1_000_000}
	r := newStreamResource(tone, testFormat, &recordingSink{}, 5*time.Millisecond)
	t.Cleanup(func() { _ = r.Close() })

	r.SetVolume(0.5)
	require.NoError(t, r.Play())
	require.Eventually(t, func() bool { return r.Level() > 0 }, time.Second, time.Millisecond)
	assert.InDelta(t, 0.25, r.Level(), 1e-9)

	r.SetVolume(0)
	require.Eventually(t, func() bool { return r.Level() == 0 }, time.Second, time.Millisecond)
}

func TestStreamResource_SeekClamps(t *testing.T) {
	tone := &toneStreamer{amp: 0.5, length: 2000}
	sink := &recordingSink{}
	r := newStreamResource(tone, testFormat, sink, time.Hour)

	r.Seek(1.5)
	assert.Equal(t, 1500, tone.Position())
	r.Seek(10)
	assert.Equal(t, 2000, tone.Position())
	r.Seek(-1)
	assert.Zero(t, tone.Position())

	sink.mu.Lock()
	assert.Equal(t, []float64{1.5, 2, 0}, sink.progress)
	sink.mu.Unlock()
}

func TestStreamResource_Close(t *testing.T) {
	tone := &toneStreamer{amp: 0.5, length: 2000}
	r := newStreamResource(tone, testFormat, &recordingSink{}, time.Hour)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.True(t, tone.closed)
	assert.ErrorIs(t, r.Play(), ErrNotReady)

	late := &toneStreamer{length: 10}
	assert.False(t, r.attach(late, testFormat), "closed resources refuse late streams")
	assert.True(t, late.closed)
}

func TestStreamLoader_MissingFile(t *testing.T) {
	sink := &recordingSink{}
	l := &StreamLoader{Opener: DirOpener{Root: t.TempDir()}}

	r, err := l.Load(context.Background(), domain.Song{ID: "credo", Path: "/audio/credo-web.mp3"}, sink)
	require.NoError(t, err)
	require.NotNil(t, r)

	require.Eventually(t, func() bool { return len(sink.failures()) == 1 }, time.Second, time.Millisecond)
	assert.ErrorIs(t, sink.failures()[0], os.ErrNotExist)
	assert.ErrorIs(t, r.Play(), ErrNotReady)
}

func TestStreamLoader_UndecodableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credo-web.mp3"), []byte("not an mp3"), 0o600))

	sink := &recordingSink{}
	l := &StreamLoader{Opener: DirOpener{Root: dir}}
	_, err := l.Load(context.Background(), domain.Song{ID: "credo", Path: "/audio/credo-web.mp3"}, sink)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(sink.failures()) == 1 }, time.Second, time.Millisecond)
	assert.Contains(t, sink.failures()[0].Error(), "decode /audio/credo-web.mp3")
}

func TestStreamLoader_RequiresOpener(t *testing.T) {
	_, err := (&StreamLoader{}).Load(context.Background(), domain.Song{ID: "credo"}, &recordingSink{})
	assert.Error(t, err)
}

func TestHTTPOpener(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/credo-web.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ID3 bytes"))
	}))
	t.Cleanup(srv.Close)

	o := HTTPOpener{BaseURL: srv.URL + "/", Client: srv.Client()}

	rc, err := o.Open(context.Background(), "/audio/credo-web.mp3")
	require.NoError(t, err)
	buf := make([]byte, 3)
	_, err = rc.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ID3", string(buf))
	_, err = rc.Seek(0, 0)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	_, err = o.Open(context.Background(), "/audio/missing.mp3")
	assert.ErrorContains(t, err, "status 404")
}

func TestDirOpener_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := DirOpener{Root: t.TempDir()}.Open(ctx, "/audio/credo-web.mp3")
	assert.ErrorIs(t, err, context.Canceled)
}
