// Package backend implements the HTTP client for the external chat/analysis
// backend. The coordinator is the only caller; nothing else in the workspace
// issues outbound requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Error is an explicit error payload returned by the backend in place of the
// expected data. It is surfaced to the user verbatim, unlike transport
// failures which collapse into a generic connectivity message.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsBackendError reports whether err is an explicit backend error payload.
func IsBackendError(err error) bool {
	var be *Error
	return errors.As(err, &be)
}

// Client is the narrow contract the exchange coordinator depends on. The HTTP
// implementation below is the production client; tests substitute stubs.
type Client interface {
	DirectChat(ctx context.Context, req DirectChatRequest) (*DirectChatResponse, error)
	AutoChat(ctx context.Context, req AutoChatRequest) (*AutoChatResponse, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)
	FetchConfig(ctx context.Context) (*ConfigResponse, error)
}

// HTTPClient talks JSON over HTTP to the backend. Every request runs under
// the configured timeout so a Pending exchange always resolves: either the
// backend answers or the deadline cancels the request and the caller sees a
// transport failure.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a backend client for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// DirectChat requests the receiver's reply to a direct message.
func (c *HTTPClient) DirectChat(ctx context.Context, req DirectChatRequest) (*DirectChatResponse, error) {
	var resp DirectChatResponse
	if err := c.post(ctx, "/direct_chat", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &Error{Message: resp.Error}
	}
	return &resp, nil
}

// AutoChat requests a multi-turn exchange sequence.
func (c *HTTPClient) AutoChat(ctx context.Context, req AutoChatRequest) (*AutoChatResponse, error) {
	var resp AutoChatResponse
	if err := c.post(ctx, "/auto_chat", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &Error{Message: resp.Error}
	}
	return &resp, nil
}

// Analyze requests an analysis of a transcript slice.
func (c *HTTPClient) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	if err := c.post(ctx, "/analyze", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &Error{Message: resp.Error}
	}
	return &resp, nil
}

// FetchConfig retrieves the backend's optional seed configuration. Callers
// fall back to the built-in seed when this fails.
func (c *HTTPClient) FetchConfig(ctx context.Context) (*ConfigResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/config", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build config request")
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "fetch backend config")
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("backend config returned status %d", httpResp.StatusCode)
	}

	var cfg ConfigResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode backend config")
	}
	return &cfg, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "marshal %s payload", path)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build %s request", path)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return errors.Wrapf(err, "post %s", path)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	log.Debug().
		Str("path", path).
		Int("status", httpResp.StatusCode).
		Dur("duration", time.Since(started)).
		Msg("backend request completed")

	// Error payloads ride on non-200 statuses too; decode before judging the
	// status so the backend's own message wins over a generic one.
	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return errors.Errorf("backend %s returned status %d", path, httpResp.StatusCode)
		}
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

// String renders the client target for startup logging.
func (c *HTTPClient) String() string {
	return fmt.Sprintf("backend[%s timeout=%s]", c.baseURL, c.timeout)
}
