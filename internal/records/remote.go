package records

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sacredrosary/rosary-server/internal/domain"
	domainerrors "github.com/sacredrosary/rosary-server/internal/errors"
	"github.com/sacredrosary/rosary-server/internal/logger"
)

// RemoteOptions configures a Remote store.
type RemoteOptions struct {
	BaseURL string
	UserID  string
	Client  *http.Client
	// Limiter paces outgoing requests. Nil allows 10 per second.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// Remote reads and writes a signed-in user's records through the HTTP
// API. Failed calls are returned to the caller and never retried.
type Remote struct {
	base    string
	userID  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRemote creates a Remote store.
func NewRemote(opts RemoteOptions) (*Remote, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("records: base URL is required")
	}
	if opts.UserID == "" {
		return nil, errors.New("records: user id is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("records: invalid base URL: %w", err)
	}
	r := &Remote{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		userID:  opts.UserID,
		client:  opts.Client,
		limiter: opts.Limiter,
		logger:  logger.OrDiscard(opts.Logger).With("component", "records", "mode", "remote"),
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: 15 * time.Second}
	}
	if r.limiter == nil {
		r.limiter = rate.NewLimiter(10, 10)
	}
	return r, nil
}

func (r *Remote) Guest() bool { return false }

func (r *Remote) Intentions(ctx context.Context) ([]domain.IntentionEntry, error) {
	var out []domain.Intention
	if err := r.do(ctx, http.MethodGet, "/api/intentions/"+url.PathEscape(r.userID), nil, &out); err != nil {
		return nil, err
	}
	entries := make([]domain.IntentionEntry, 0, len(out))
	for _, in := range out {
		entries = append(entries, domain.IntentionEntry{ID: in.ID, Text: in.Text})
	}
	return entries, nil
}

func (r *Remote) AddIntention(ctx context.Context, text string) (domain.IntentionEntry, error) {
	body := map[string]any{"userId": r.userID, "text": text, "isActive": true}
	var in domain.Intention
	if err := r.do(ctx, http.MethodPost, "/api/intentions", body, &in); err != nil {
		return domain.IntentionEntry{}, err
	}
	return domain.IntentionEntry{ID: in.ID, Text: in.Text}, nil
}

func (r *Remote) RemoveIntention(ctx context.Context, entryID int64) error {
	body := map[string]any{"userId": r.userID}
	return r.do(ctx, http.MethodDelete, "/api/intentions/"+strconv.FormatInt(entryID, 10), body, nil)
}

func (r *Remote) CustomPrayers(ctx context.Context) ([]domain.CustomPrayerEntry, error) {
	var out []domain.CustomPrayer
	if err := r.do(ctx, http.MethodGet, "/api/custom-prayers/"+url.PathEscape(r.userID), nil, &out); err != nil {
		return nil, err
	}
	entries := make([]domain.CustomPrayerEntry, 0, len(out))
	for _, p := range out {
		entries = append(entries, prayerEntry(p))
	}
	return entries, nil
}

func (r *Remote) AddCustomPrayer(ctx context.Context, title, content string, section domain.Section) (domain.CustomPrayerEntry, error) {
	body := map[string]any{
		"userId":   r.userID,
		"title":    title,
		"content":  content,
		"section":  section,
		"isActive": true,
	}
	var p domain.CustomPrayer
	if err := r.do(ctx, http.MethodPost, "/api/custom-prayers", body, &p); err != nil {
		return domain.CustomPrayerEntry{}, err
	}
	return prayerEntry(p), nil
}

func (r *Remote) UpdateCustomPrayer(ctx context.Context, entryID int64, u domain.CustomPrayerUpdate) (domain.CustomPrayerEntry, error) {
	body := map[string]any{"userId": r.userID}
	if u.Title != nil {
		body["title"] = *u.Title
	}
	if u.Content != nil {
		body["content"] = *u.Content
	}
	if u.Section != nil {
		body["section"] = *u.Section
	}
	var p domain.CustomPrayer
	if err := r.do(ctx, http.MethodPatch, "/api/custom-prayers/"+strconv.FormatInt(entryID, 10), body, &p); err != nil {
		return domain.CustomPrayerEntry{}, err
	}
	return prayerEntry(p), nil
}

func (r *Remote) RemoveCustomPrayer(ctx context.Context, entryID int64) error {
	body := map[string]any{"userId": r.userID}
	return r.do(ctx, http.MethodDelete, "/api/custom-prayers/"+strconv.FormatInt(entryID, 10), body, nil)
}

func prayerEntry(p domain.CustomPrayer) domain.CustomPrayerEntry {
	return domain.CustomPrayerEntry{ID: p.ID, Title: p.Title, Content: p.Content, Section: p.Section}
}

// do sends one request. A 404 becomes NOT_FOUND; every other failure,
// including transport errors, becomes REMOTE_OPERATION_FAILED.
func (r *Remote) do(ctx context.Context, method, path string, in, out any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return domainerrors.Remote(err, "request was not sent")
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("remote request failed", "method", method, "path", path, "error", err)
		return domainerrors.Remote(err, "server could not be reached")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return r.failure(method, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.UnmarshalRead(resp.Body, out); err != nil {
		return domainerrors.Remote(err, "server sent an unreadable response")
	}
	return nil
}

func (r *Remote) failure(method, path string, resp *http.Response) error {
	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &apiErr)

	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	r.logger.Warn("remote request rejected",
		"method", method, "path", path, "status", resp.StatusCode, "code", apiErr.Code)

	if resp.StatusCode == http.StatusNotFound {
		return domainerrors.NotFound(msg)
	}
	return domainerrors.Remote(fmt.Errorf("status %d", resp.StatusCode), msg).
		WithDetails(map[string]any{"status": resp.StatusCode, "code": apiErr.Code})
}
