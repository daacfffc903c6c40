package domain

import "time"

// Song is an entry of the devotional audio catalog.
type Song struct {
	ID          string `json:"id" toml:"id"`
	Title       string `json:"title" toml:"title"`
	Latin       string `json:"latin" toml:"latin"`
	Duration    string `json:"duration" toml:"duration"` // nominal "M:SS", for display only
	Description string `json:"description" toml:"description"`
	Path        string `json:"path" toml:"path"` // e.g. /audio/credo-web.mp3

	// ExpectedLoad overrides the load timeout for large files.
	ExpectedLoad time.Duration `json:"-" toml:"expected_load"`
}
