package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shealthydtaco-cyber/verysleepy-ai/internal/logging"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Op     string
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Code)
}

// TransportError is returned when the backend could not be reached or its
// reply could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// Detail extracts the backend-supplied detail from err, if any.
func Detail(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}

// IsTransport reports whether err means the backend was unreachable.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Client talks to the assistant backend over HTTP. Each method makes a
// single attempt; there are no retries and no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. A trailing slash is stripped and
// an empty URL selects DefaultBaseURL. A zero timeout leaves requests bounded
// only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    NormalizeBaseURL(baseURL),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Query asks the assistant to answer input. An empty reply body is not an
// error; callers decide what to show.
func (c *Client) Query(ctx context.Context, req QueryRequest) (string, error) {
	var resp QueryResponse
	if err := c.doJSON(ctx, "query", http.MethodPost, "/query", req, &resp); err != nil {
		return "", err
	}
	return resp.Reply(), nil
}

// SpeechToText uploads audio as a multipart file and returns the transcript.
func (c *Client) SpeechToText(ctx context.Context, audio []byte, filename string) (Transcription, error) {
	const op = "speech to text"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Transcription{}, fmt.Errorf("%s: create form file: %w", op, err)
	}
	if _, err := part.Write(audio); err != nil {
		return Transcription{}, fmt.Errorf("%s: write form file: %w", op, err)
	}
	if err := mw.Close(); err != nil {
		return Transcription{}, fmt.Errorf("%s: close form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stt", &body)
	if err != nil {
		return Transcription{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var t Transcription
	if err := c.do(op, req, &t); err != nil {
		return Transcription{}, err
	}
	return t, nil
}

// Speak starts server-side playback of text and returns the playback id,
// or "" when the backend returned none.
func (c *Client) Speak(ctx context.Context, req SpeakRequest) (string, error) {
	var resp SpeakResponse
	if err := c.doJSON(ctx, "speak", http.MethodPost, "/speak", req, &resp); err != nil {
		return "", err
	}
	if resp.ID == nil {
		return "", nil
	}
	return *resp.ID, nil
}

// StopPlayback asks the backend to cancel playback id.
func (c *Client) StopPlayback(ctx context.Context, id string) error {
	return c.doJSON(ctx, "stop playback", http.MethodPost, "/speak/"+url.PathEscape(id)+"/stop", nil, nil)
}

// FetchMemory returns facts and preferences. The snapshot endpoint is
// authoritative; when it fails the legacy /memory and /prefs endpoints are
// tried and whatever they yield is returned. The error is non-nil only when
// every endpoint failed.
func (c *Client) FetchMemory(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := c.doJSON(ctx, "memory snapshot", http.MethodGet, "/memory/snapshot", nil, &snap)
	if err == nil {
		if snap.Prefs == nil {
			snap.Prefs = Preferences{}
		}
		return snap, nil
	}
	logging.Logger().Warn("snapshot fetch failed, using legacy endpoints", "err", err)

	snap = Snapshot{Prefs: Preferences{}}
	var mem legacyMemory
	memErr := c.doJSON(ctx, "memory", http.MethodGet, "/memory", nil, &mem)
	if memErr != nil {
		logging.Logger().Warn("fetch memory failed", "err", memErr)
	} else {
		snap.Facts = mem.LongTerm
	}

	prefs, prefsErr := c.Preferences(ctx)
	if prefsErr != nil {
		logging.Logger().Warn("fetch prefs failed", "err", prefsErr)
	} else {
		snap.Prefs = prefs
	}

	if memErr != nil && prefsErr != nil {
		return snap, fmt.Errorf("fetch memory: %w", errors.Join(err, memErr, prefsErr))
	}
	return snap, nil
}

// Preferences reads GET /prefs.
func (c *Client) Preferences(ctx context.Context) (Preferences, error) {
	prefs := Preferences{}
	if err := c.doJSON(ctx, "prefs", http.MethodGet, "/prefs", nil, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SetPreference writes key=value through to the backend.
func (c *Client) SetPreference(ctx context.Context, key, value string) error {
	return c.doJSON(ctx, "set pref", http.MethodPost, "/prefs", PrefRequest{Key: key, Value: value}, nil)
}

// Remember stores content as a long-term fact. Policy rejections come back
// as a *StatusError carrying the backend detail.
func (c *Client) Remember(ctx context.Context, content, source string) error {
	return c.doJSON(ctx, "remember", http.MethodPost, "/memory/remember", RememberRequest{Content: content, Source: source}, nil)
}

// DeleteFact removes the fact with the given id.
func (c *Client) DeleteFact(ctx context.Context, id int64) error {
	return c.doJSON(ctx, "delete fact", http.MethodDelete, "/memory/"+strconv.FormatInt(id, 10), nil, nil)
}

// ClearMemory wipes all backend memory and preferences.
func (c *Client) ClearMemory(ctx context.Context) error {
	return c.doJSON(ctx, "clear memory", http.MethodPost, "/memory/clear", nil, nil)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logging.Logger().Debug("backend request",
		"op", op, "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		var eb errorBody
		detail := ""
		if json.Unmarshal(data, &eb) == nil {
			detail = eb.text()
		}
		return &StatusError{Op: op, Code: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
