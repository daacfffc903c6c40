// Package catalog holds the fixed list of devotional songs and the
// sequencing rules used when moving between them.
package catalog

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/sacredrosary/rosary-server/internal/domain"
)

//go:embed songs.toml
var builtinSongs []byte

// DefaultSongID is the song a fresh player starts on.
const DefaultSongID = "adoro-te-devote"

// Catalog is an immutable ordered list of songs. The zero value is empty.
// A Catalog is safe for concurrent use.
type Catalog struct {
	songs []domain.Song

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRand sets the random source used for shuffle draws.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) { c.rng = r }
}

type catalogFile struct {
	Songs []domain.Song `toml:"song"`
}

// New creates a catalog from songs in playback order. Ids must be
// non-empty and unique.
func New(songs []domain.Song, opts ...Option) (*Catalog, error) {
	seen := make(map[string]struct{}, len(songs))
	for i, s := range songs {
		if s.ID == "" {
			return nil, fmt.Errorf("song %d: empty id", i)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("song %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	c := &Catalog{songs: append([]domain.Song(nil), songs...)}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default(opts ...Option) *Catalog {
	c, err := Parse(builtinSongs, opts...)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in songs: %v", err))
	}
	return c
}

// Parse decodes a TOML catalog made of [[song]] tables.
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Songs) == 0 {
		return nil, fmt.Errorf("catalog has no songs")
	}
	return New(f.Songs, opts...)
}

// Load reads a TOML catalog from path. An empty path returns the built-in
// catalog.
func Load(path string, opts ...Option) (*Catalog, error) {
	if path == "" {
		return Default(opts...), nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- catalog path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Songs returns a copy of the songs in playback order.
func (c *Catalog) Songs() []domain.Song {
	return append([]domain.Song(nil), c.songs...)
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	return len(c.songs)
}

// First returns the id of the first song, or "" for an empty catalog.
func (c *Catalog) First() string {
	if len(c.songs) == 0 {
		return ""
	}
	return c.songs[0].ID
}

// GetByID looks a song up by id.
func (c *Catalog) GetByID(id string) (domain.Song, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.songs[i], true
	}
	return domain.Song{}, false
}

// Next returns the id that follows id. In order it wraps from the last
// song to the first; an unknown id yields the first song. With shuffle it
// draws a random song other than id, unless the catalog has one song.
func (c *Catalog) Next(id string, shuffle bool) string {
	n := len(c.songs)
	if n == 0 {
		return ""
	}
	if shuffle {
		return c.draw(id)
	}
	return c.songs[(c.indexOf(id)+1)%n].ID
}

// Previous returns the id before id, wrapping from the first song to the
// last. An unknown id yields the last song.
func (c *Catalog) Previous(id string) string {
	n := len(c.songs)
	if n == 0 {
		return ""
	}
	i := c.indexOf(id)
	if i <= 0 {
		return c.songs[n-1].ID
	}
	return c.songs[i-1].ID
}

func (c *Catalog) draw(current string) string {
	n := len(c.songs)
	if n == 1 {
		return c.songs[0].ID
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		pick := c.songs[c.rng.IntN(n)].ID
		if pick != current {
			return pick
		}
	}
}

func (c *Catalog) indexOf(id string) int {
	for i := range c.songs {
		if c.songs[i].ID == id {
			return i
		}
	}
	return -1
}
