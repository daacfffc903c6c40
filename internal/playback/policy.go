package playback

import (
	"time"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

// LoadPolicy decides how long a resource may take to become ready and how
// failed loads are retried.
type LoadPolicy struct {
	// DefaultTimeout applies when neither the song nor Overrides say otherwise.
	DefaultTimeout time.Duration
	// Overrides maps song ids to their expected load time.
	Overrides map[string]time.Duration
	// MaxRetries is how many times a failed load is retried.
	MaxRetries int
	// Backoff is the delay before the first retry; it doubles each retry.
	Backoff time.Duration
}

// DefaultLoadPolicy returns a 10s timeout with two retries starting at 300ms.
func DefaultLoadPolicy() LoadPolicy {
	return LoadPolicy{
		DefaultTimeout: 10 * time.Second,
		MaxRetries:     2,
		Backoff:        300 * time.Millisecond,
	}
}

// ExpectedLoadTime returns the window song has to become ready. The song's
// own ExpectedLoad wins over Overrides, which win over DefaultTimeout.
func (p LoadPolicy) ExpectedLoadTime(song domain.Song) time.Duration {
	if song.ExpectedLoad > 0 {
		return song.ExpectedLoad
	}
	if d, ok := p.Overrides[song.ID]; ok && d > 0 {
		return d
	}
	if p.DefaultTimeout > 0 {
		return p.DefaultTimeout
	}
	return DefaultLoadPolicy().DefaultTimeout
}

// RetryDelay returns the wait before retry number attempt (1-based).
func (p LoadPolicy) RetryDelay(attempt int) time.Duration {
	if attempt < 1 || p.Backoff <= 0 {
		return 0
	}
	d := p.Backoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

func (p LoadPolicy) normalized() LoadPolicy {
	if p.DefaultTimeout <= 0 {
		p.DefaultTimeout = DefaultLoadPolicy().DefaultTimeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	return p
}
