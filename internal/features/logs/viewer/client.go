package logs_viewer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	users_dto "logview/internal/features/users/dto"
)

// APIError carries the HTTP status of a failed API call so callers can map
// status-code semantics (401 invalid credentials, 409 cookie failure).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// FileChunk is one windowed read of a log file. Start/End are byte offsets
// of the returned window (end-exclusive); Total is the file size reported by
// the server at read time.
type FileChunk struct {
	Data  []byte
	Start int64
	End   int64
	Total int64
}

// Client consumes the log-viewer HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu            sync.RWMutex
	token         string
	sessionCookie string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SetCredentials installs the bearer token and session cookie obtained from a
// completed authentication sequence.
func (c *Client) SetCredentials(token, sessionCookie string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.sessionCookie = sessionCookie
}

// GetLogFile fetches a byte window of the named log file. The range spec is
// either "-<maxBytes>" for a tail read or "<start>-<end>" for a prefix read.
//
// The server always reports the total file size via the Content-Range header;
// a response without a parsable total is an internal contract violation and
// panics rather than being silently handled.
func (c *Client) GetLogFile(ctx context.Context, file, rangeSpec string) (*FileChunk, error) {
	query := url.Values{}
	query.Set("file", file)
	query.Set("range", rangeSpec)

	resp, err := c.get(ctx, "/api/v1/logs/file?"+query.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, c.asAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read log window: %w", err)
	}

	start, end, total := parseContentRange(resp.Header.Get("Content-Range"))

	return &FileChunk{Data: data, Start: start, End: end, Total: total}, nil
}

// StreamLog subscribes to the live line stream for the file and invokes
// onLine for every event until the context is cancelled or the stream ends.
func (c *Client) StreamLog(ctx context.Context, file string, invert bool, onLine func(line string)) error {
	query := url.Values{}
	query.Set("file", file)
	query.Set("invert", strconv.FormatBool(invert))

	resp, err := c.get(ctx, "/api/v1/logs/stream?"+query.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.asAPIError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		event := scanner.Text()
		if data, ok := strings.CutPrefix(event, "data:"); ok {
			onLine(strings.TrimPrefix(data, " "))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("log stream interrupted: %w", err)
	}

	return ctx.Err()
}

// GetProfile refreshes the session display state after a successful login.
func (c *Client) GetProfile(ctx context.Context) (*users_dto.UserProfileResponseDTO, error) {
	resp, err := c.get(ctx, "/api/v1/auth/me")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.asAPIError(resp)
	}

	var profile users_dto.UserProfileResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	return &profile, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: "logview_session", Value: c.sessionCookie})
	}
	c.mu.RUnlock()

	return c.httpClient.Do(req)
}

func (c *Client) asAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}

// parseContentRange extracts offsets from a "bytes <start>-<end>/<total>"
// header. The end offset in the header is inclusive per HTTP convention and
// converted to end-exclusive here. A missing or garbled total is a logic
// error on the server side and must not occur.
func parseContentRange(header string) (start, end, total int64) {
	rangePart, totalPart, ok := strings.Cut(strings.TrimPrefix(header, "bytes "), "/")
	if !ok {
		panic(fmt.Sprintf("log file response carries no total size: %q", header))
	}

	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("log file response carries unparsable total size: %q", header))
	}

	startStr, endStr, ok := strings.Cut(rangePart, "-")
	if ok {
		start, _ = strconv.ParseInt(startStr, 10, 64)
		if endInclusive, err := strconv.ParseInt(endStr, 10, 64); err == nil {
			end = endInclusive + 1
		}
	}

	return start, end, total
}
