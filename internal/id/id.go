// Package id generates the identifiers used across the rosary server and
// client: request ids, user ids and device-local entry ids.
package id

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate creates a prefixed NanoID, e.g. "req-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Request returns a new request id, e.g. "req-V1StGXR8_Z5jdHi6B-myT".
func Request() string {
	return MustGenerate("req")
}

// NewUserID returns a random user id in canonical UUID form.
func NewUserID() string {
	return uuid.NewString()
}

// ValidUserID reports whether s is a UUID user id.
func ValidUserID(s string) bool {
	return uuid.Validate(s) == nil
}

// NormalizeUserID parses s and returns its canonical lowercase form.
func NormalizeUserID(s string) (string, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid user id %q: %w", s, err)
	}
	return u.String(), nil
}

// GuestClock hands out millisecond timestamps for device-local entries,
// bumping by one when two calls land in the same millisecond so ids stay
// strictly increasing within a process.
type GuestClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewGuestClock creates a GuestClock reading the wall clock.
func NewGuestClock() *GuestClock {
	return &GuestClock{now: time.Now}
}

// Seed makes later ids greater than floor, typically the largest id
// already stored on the device.
func (c *GuestClock) Seed(floor int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if floor > c.last {
		c.last = floor
	}
}

// Next returns the next id.
func (c *GuestClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	ms := now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}
