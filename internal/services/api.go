// Raw HTTP transport for the qBittorrent Web API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/qbx/internal/shared"
	"golang.org/x/time/rate"
)

const sessionCookie = "SID"

// APIService issues raw requests against the collaborator.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIService creates a transport for baseURL. A nil client falls back to [http.DefaultClient] and a nil
// limiter to an unlimited one.
func NewAPIService(baseURL string, client *http.Client, limiter *rate.Limiter) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    limiter,
	}
}

// BaseURL returns the collaborator address requests are sent to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Cookies    []*http.Cookie
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Cookie returns the value of the named response cookie.
func (r *APIResponse) Cookie(name string) (string, bool) {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// OK reports a 200 answer; the collaborator uses no other success status.
func (r *APIResponse) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Get performs a GET request to path with the given query and session token.
func (a *APIService) Get(ctx context.Context, path string, query url.Values, sid string) (*APIResponse, error) {
	fullURL := a.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return a.do(req, sid)
}

// PostForm performs a form-encoded POST to path with the given session token.
func (a *APIService) PostForm(ctx context.Context, path string, form url.Values, sid string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return a.do(req, sid)
}

// do sends req. The SID cookie is attached even when empty so an unauthenticated call still reaches
// the collaborator and is rejected there.
func (a *APIService) do(req *http.Request, sid string) (*APIResponse, error) {
	req.Header.Set("Referer", a.baseURL)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sid})

	if err := a.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrServiceUnavailable, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", shared.ErrServiceUnavailable, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Cookies:    resp.Cookies(),
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
