package api

const (
	// requestIDHeader carries the request id in both directions.
	requestIDHeader = "X-Request-ID"

	// maxSongResults bounds a catalog search.
	maxSongResults = 50
)

// Cache-Control header values.
const (
	CacheOneDay  = "public, max-age=86400"
	CacheNoStore = "no-cache"
)
