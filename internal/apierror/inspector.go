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

package apierror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	bannererrors "github.com/sirseerhq/player-banner/internal/errors"
)

// StatusError is returned when the API answers with a non-2xx status.
// Body holds the raw response body, normally a JSON error document such as
// {"status": 403, "message": "..."}.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap exposes the sentinel matching the status, so errors.Is can test for
// bannererrors.ErrRateLimit and bannererrors.ErrInvalidAPIKey.
func (e *StatusError) Unwrap() error {
	switch {
	case e.IsRateLimitError():
		return bannererrors.ErrRateLimit
	case e.IsAuthError():
		return bannererrors.ErrInvalidAPIKey
	}
	return nil
}

// IsRateLimitError reports whether the status is speedrun.com's throttle
// response. The API uses 420 as well as the standard 429.
func (e *StatusError) IsRateLimitError() bool {
	return e.StatusCode == 420 || e.StatusCode == http.StatusTooManyRequests
}

// IsAuthError reports whether the API key was missing or not accepted.
func (e *StatusError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFoundError reports a 404.
func (e *StatusError) IsNotFoundError() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsServerError reports a 5xx status.
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode <= 599
}

// Inspector provides methods to classify API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication error.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsServerError returns true if the error represents a 5xx response.
	IsServerError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsRetryable returns true if repeating the request may succeed.
	IsRetryable(err error) bool
}

// StringInspector classifies errors by their message text. It is the
// fallback for errors that carry no type information, such as those
// produced by third-party transports.
type StringInspector struct{}

// NewStringInspector creates a new StringInspector.
func NewStringInspector() Inspector {
	return &StringInspector{}
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *StringInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403") ||
		strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") ||
		strings.Contains(errStr, "invalid api key")
}

// IsNotFoundError checks if the error is a not found error.
func (i *StringInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "404") ||
		strings.Contains(errStr, "not found")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *StringInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "420") ||
		strings.Contains(errStr, "too many requests")
}

// IsServerError checks if the error mentions a gateway or server failure.
func (i *StringInspector) IsServerError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *StringInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "dial tcp") ||
		strings.Contains(errStr, "tls handshake") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "unexpected eof")
}

// IsRetryable reports network, rate limit and server errors as retryable.
func (i *StringInspector) IsRetryable(err error) bool {
	return i.IsNetworkError(err) || i.IsRateLimitError(err) || i.IsServerError(err)
}

// ChainInspector checks the error chain using errors.Is and errors.As and
// falls back to a base inspector when no typed error is found.
type ChainInspector struct {
	base Inspector
}

// NewInspector returns the inspector used throughout the program: typed
// checks first, message text second.
func NewInspector() Inspector {
	return &ChainInspector{base: NewStringInspector()}
}

// IsAuthError checks the error chain first, then falls back to base inspector.
func (c *ChainInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, bannererrors.ErrInvalidAPIKey) {
		return true
	}
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) {
		return authErr.IsAuthError()
	}
	return c.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (c *ChainInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, bannererrors.ErrUserNotFound) || errors.Is(err, bannererrors.ErrGameNotFound) {
		return true
	}
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) {
		return notFoundErr.IsNotFoundError()
	}
	return c.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to base inspector.
func (c *ChainInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, bannererrors.ErrRateLimit) {
		return true
	}
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr.IsRateLimitError()
	}
	return c.base.IsRateLimitError(err)
}

// IsServerError checks the error chain first, then falls back to base inspector.
func (c *ChainInspector) IsServerError(err error) bool {
	if err == nil {
		return false
	}
	var serverErr interface{ IsServerError() bool }
	if errors.As(err, &serverErr) {
		return serverErr.IsServerError()
	}
	return c.base.IsServerError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
// Context cancellation is never reported as a network error.
func (c *ChainInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return false
	}
	if errors.Is(err, bannererrors.ErrNetworkFailure) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return c.base.IsNetworkError(err)
}

// IsRetryable reports network, rate limit and server errors as retryable.
func (c *ChainInspector) IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return c.IsNetworkError(err) || c.IsRateLimitError(err) || c.IsServerError(err)
}
