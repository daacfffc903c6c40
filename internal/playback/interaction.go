package playback

import "sync/atomic"

// Interaction reports whether the user has interacted with the app yet.
// Platforms refuse unsolicited audio before the first gesture, so autoplay
// is only attempted once this returns true.
type Interaction interface {
	Interacted() bool
}

// InteractionFlag is a process-wide, set-once interaction flag. It starts
// false and Mark flips it to true for good.
type InteractionFlag struct {
	set atomic.Bool
}

// Mark records the first user gesture. Later calls do nothing.
func (f *InteractionFlag) Mark() {
	f.set.Store(true)
}

// Interacted implements Interaction.
func (f *InteractionFlag) Interacted() bool {
	return f.set.Load()
}

// Always is an Interaction for headless players that may start audio
// without a gesture.
type Always struct{}

// Interacted implements Interaction.
func (Always) Interacted() bool { return true }
