package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/simonhull/audiometa"
)

// DurationTolerance is how far a file's real duration may drift from the
// nominal catalog duration before Probe flags it.
const DurationTolerance = 2 * time.Second

// ProbeResult describes one song's audio file.
type ProbeResult struct {
	SongID   string
	File     string
	Nominal  time.Duration
	Measured time.Duration
	Format   string
	Missing  bool
	Err      error
}

// Mismatch reports whether the measured duration is outside tolerance.
func (r ProbeResult) Mismatch() bool {
	if r.Err != nil || r.Missing || r.Measured == 0 {
		return false
	}
	d := r.Measured - r.Nominal
	if d < 0 {
		d = -d
	}
	return d > DurationTolerance
}

// OK reports whether the file exists, parsed, and matches its nominal
// duration.
func (r ProbeResult) OK() bool {
	return !r.Missing && r.Err == nil && !r.Mismatch()
}

// Probe reads every song's audio file under root and reports its real
// duration. Song paths such as "/audio/credo-web.mp3" resolve to
// root/credo-web.mp3.
func Probe(ctx context.Context, c *Catalog, root string) ([]ProbeResult, error) {
	results := make([]ProbeResult, 0, c.Len())
	for _, s := range c.songs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r := ProbeResult{SongID: s.ID, File: ResolvePath(root, s.Path)}
		if r.Nominal, r.Err = ParseDuration(s.Duration); r.Err != nil {
			results = append(results, r)
			continue
		}

		if _, err := os.Stat(r.File); errors.Is(err, os.ErrNotExist) {
			r.Missing = true
			results = append(results, r)
			continue
		}

		file, err := audiometa.OpenContext(ctx, r.File)
		if err != nil {
			r.Err = fmt.Errorf("read metadata: %w", err)
			results = append(results, r)
			continue
		}
		r.Measured = file.Audio.Duration
		r.Format = file.Format.String()
		_ = file.Close()

		results = append(results, r)
	}
	return results, nil
}

// ResolvePath maps a catalog resource path onto root. Only the final path
// element is used, so catalog entries cannot escape root.
func ResolvePath(root, resource string) string {
	name := filepath.Base(strings.TrimPrefix(resource, "/audio/"))
	return filepath.Join(root, name)
}
