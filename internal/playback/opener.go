package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sacredrosary/rosary-server/internal/catalog"
)

// ReadSeekCloser is an audio source the decoder can seek in.
type ReadSeekCloser interface {
	io.ReadSeekCloser
}

// Opener resolves a catalog resource path to its bytes.
type Opener interface {
	Open(ctx context.Context, path string) (ReadSeekCloser, error)
}

// DirOpener reads audio files from a local directory.
type DirOpener struct {
	Root string
}

// Open implements Opener.
func (d DirOpener) Open(ctx context.Context, path string) (ReadSeekCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(catalog.ResolvePath(d.Root, path)) //#nosec G304 -- resolved under Root
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	return f, nil
}

// HTTPOpener downloads audio files from the server's /audio/ route. The
// whole file is buffered so the decoder can seek.
type HTTPOpener struct {
	BaseURL string
	Client  *http.Client
}

// Open implements Opener.
func (h HTTPOpener) Open(ctx context.Context, path string) (ReadSeekCloser, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	url := strings.TrimRight(h.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build audio request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch audio %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return nopCloser{bytes.NewReader(data)}, nil
}

// nopCloser wraps a bytes.Reader to implement io.ReadSeekCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
