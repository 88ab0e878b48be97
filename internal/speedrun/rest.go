// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package speedrun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/player-banner/internal/apierror"
	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
	"github.com/sirseerhq/player-banner/pkg/version"
)

// Options configures a RESTClient.
type Options struct {
	// BaseURL is the API root, e.g. DefaultBaseURL. Tests point it at an
	// httptest server.
	BaseURL string

	// Product is the User-Agent product name. The build version is appended.
	Product string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// Transport overrides the underlying round tripper.
	Transport http.RoundTripper
}

// RESTClient implements Client against the speedrun.com REST API.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTClient creates a client for the REST API rooted at opts.BaseURL.
// The client is configured with:
//   - User-Agent and Accept headers on every request
//   - Response size limiting to prevent memory issues
//   - The optional per-request timeout
func NewRESTClient(opts Options) *RESTClient {
	base := opts.Transport
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        4,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &headerTransport{
				userAgent: version.UserAgent(opts.Product),
				base:      base,
			},
		},
	}
}

// LookupUsers queries GET /users?lookup=<name>.
func (c *RESTClient) LookupUsers(ctx context.Context, name string) ([]User, error) {
	var env dataEnvelope[[]User]
	if err := c.getJSON(ctx, "/users", url.Values{"lookup": {name}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// LookupGames queries GET /games?abbreviation=<abbr>.
func (c *RESTClient) LookupGames(ctx context.Context, abbreviation string) ([]Game, error) {
	var env dataEnvelope[[]Game]
	if err := c.getJSON(ctx, "/games", url.Values{"abbreviation": {abbreviation}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ListRuns queries GET /runs?user=<uid>&game=<gid>&max=<n>&offset=<n>.
func (c *RESTClient) ListRuns(ctx context.Context, opts ListRunsOptions) (*RunPage, error) {
	pageSize := opts.Max
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := url.Values{}
	if opts.User != "" {
		query.Set("user", opts.User)
	}
	if opts.Game != "" {
		query.Set("game", opts.Game)
	}
	query.Set("max", strconv.Itoa(pageSize))
	query.Set("offset", strconv.Itoa(opts.Offset))

	var env dataEnvelope[[]Run]
	if err := c.getJSON(ctx, "/runs", query, &env); err != nil {
		return nil, err
	}

	page := &RunPage{Runs: env.Data}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	} else {
		page.Pagination = Pagination{Offset: opts.Offset, Max: pageSize, Size: len(env.Data)}
	}
	return page, nil
}

// SetRunStatus issues PUT /runs/<id>/status authenticated with apiKey.
// Any 2xx answer is success; the body, if any, is discarded.
func (c *RESTClient) SetRunStatus(ctx context.Context, apiKey, runID string, update StatusUpdate) error {
	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	endpoint := c.baseURL + "/runs/" + url.PathEscape(runID) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, req, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(req, resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// getJSON performs a GET and decodes a JSON body into out.
func (c *RESTClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, req, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(req, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response from %s %s: %w: %w", req.Method, req.URL.Path, bannererrors.ErrNetworkFailure, err)
	}
	return nil
}

// transportError wraps a failed round trip. Cancellation of the caller's
// context is returned as such and is not reported as a network failure.
func (c *RESTClient) transportError(ctx context.Context, req *http.Request, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ctxErr)
	}
	return fmt.Errorf("%s %s: %w: %w", req.Method, req.URL.Path, bannererrors.ErrNetworkFailure, err)
}

// statusError reads the error body and builds a *apierror.StatusError.
func (c *RESTClient) statusError(req *http.Request, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return &apierror.StatusError{
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}
