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

// Package testutil provides common test helpers for player-banner
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirseerhq/player-banner/internal/speedrun"
)

// RecordedRequest is one request seen by a FakeServer.
type RecordedRequest struct {
	Method    string
	Path      string
	Query     url.Values
	APIKey    string
	UserAgent string
	Body      string
}

// FakeResponse is a canned answer for a status update.
type FakeResponse struct {
	StatusCode int
	Body       string
}

// FakeServer emulates the speedrun.com endpoints player-banner uses:
// GET /users, GET /games, GET /runs and PUT /runs/{id}/status.
type FakeServer struct {
	*httptest.Server

	mu sync.Mutex

	// Users maps a lookup name to the users returned for it.
	Users map[string][]speedrun.User

	// Games maps an abbreviation to the games returned for it.
	Games map[string][]speedrun.Game

	// Runs maps "<user id>/<game id>" to the runs listed for that pair.
	Runs map[string][]speedrun.Run

	// StatusResponses maps a run id to a canned status update answer.
	// Runs without an entry get 200 with the updated run as body.
	StatusResponses map[string]FakeResponse

	// APIKey, when set, is required on status updates; other keys get 403.
	APIKey string

	requests []RecordedRequest
}

// NewFakeServer starts a FakeServer seeded with the AnInternetTroll / mkw
// fixtures. It is closed when the test ends.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()

	f := &FakeServer{
		Users: map[string][]speedrun.User{
			"AnInternetTroll": {{ID: "7j477kvj", Names: speedrun.Names{International: "AnInternetTroll"}}},
		},
		Games: map[string][]speedrun.Game{
			"mkw":       {{ID: "l3dxogdy", Abbreviation: "mkw"}},
			"celestep8": {{ID: "4d7e7z67", Abbreviation: "celestep8"}},
		},
		Runs:            map[string][]speedrun.Run{},
		StatusResponses: map[string]FakeResponse{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", f.handleUsers)
	mux.HandleFunc("GET /games", f.handleGames)
	mux.HandleFunc("GET /runs", f.handleRuns)
	mux.HandleFunc("PUT /runs/{id}/status", f.handleStatus)

	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.Close)

	return f
}

// SetRuns sets the runs listed for a user/game pair.
func (f *FakeServer) SetRuns(userID, gameID string, runs []speedrun.Run) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Runs[userID+"/"+gameID] = runs
}

// SetStatusResponse sets a canned answer for one run's status update.
func (f *FakeServer) SetStatusResponse(runID string, code int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StatusResponses[runID] = FakeResponse{StatusCode: code, Body: body}
}

// Requests returns a copy of every request received so far.
func (f *FakeServer) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestsTo returns the recorded requests matching method and path.
// An empty path matches every path under method.
func (f *FakeServer) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == method && (path == "" || r.Path == path) {
			out = append(out, r)
		}
	}
	return out
}

// StatusUpdates returns the PUT requests received, in order.
func (f *FakeServer) StatusUpdates() []RecordedRequest {
	return f.RequestsTo(http.MethodPut, "")
}

func (f *FakeServer) record(r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, RecordedRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.Query(),
		APIKey:    r.Header.Get("X-API-Key"),
		UserAgent: r.Header.Get("User-Agent"),
		Body:      string(body),
	})
}

func (f *FakeServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	users := f.Users[r.URL.Query().Get("lookup")]
	f.mu.Unlock()

	if users == nil {
		users = []speedrun.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": users})
}

func (f *FakeServer) handleGames(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	games := f.Games[r.URL.Query().Get("abbreviation")]
	f.mu.Unlock()

	if games == nil {
		games = []speedrun.Game{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": games})
}

func (f *FakeServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size, err := strconv.Atoi(q.Get("max"))
	if err != nil || size <= 0 {
		size = 20
	}
	offset, _ := strconv.Atoi(q.Get("offset"))

	f.mu.Lock()
	all := f.Runs[q.Get("user")+"/"+q.Get("game")]
	f.mu.Unlock()

	runs := []speedrun.Run{}
	if offset < len(all) {
		end := offset + size
		if end > len(all) {
			end = len(all)
		}
		runs = append(runs, all[offset:end]...)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": runs,
		"pagination": map[string]any{
			"offset": offset,
			"max":    size,
			"size":   len(runs),
		},
	})
}

func (f *FakeServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	f.mu.Lock()
	resp, canned := f.StatusResponses[id]
	required := f.APIKey
	f.mu.Unlock()

	if canned {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
		return
	}

	if required != "" && r.Header.Get("X-API-Key") != required {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"status":  http.StatusForbidden,
			"message": "The API key is not valid.",
		})
		return
	}

	var update speedrun.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  http.StatusBadRequest,
			"message": fmt.Sprintf("invalid body: %v", err),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": speedrun.Run{ID: id, Status: update.Status},
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// MockServer wraps an httptest server and counts the requests it receives
type MockServer struct {
	*httptest.Server
	requestCount atomic.Int32
}

// RequestCount returns the number of requests served.
func (m *MockServer) RequestCount() int {
	return int(m.requestCount.Load())
}

// NewErrorServer creates a mock server that always returns the specified
// status with a speedrun.com style error body
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestCount.Add(1)
		writeJSON(w, statusCode, map[string]any{
			"status":  statusCode,
			"message": http.StatusText(statusCode),
		})
	}))
	t.Cleanup(m.Close)
	return m
}

// NewTransientErrorServer creates a mock server that fails N times with
// errorCode and then answers every request with an empty data list
func NewTransientErrorServer(t *testing.T, failCount, errorCode int) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := m.requestCount.Add(1)

		if count <= int32(failCount) {
			writeJSON(w, errorCode, map[string]any{
				"status":  errorCode,
				"message": http.StatusText(errorCode),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"data": []any{}})
	}))
	t.Cleanup(m.Close)
	return m
}

// NewMalformedServer creates a mock server that answers 200 with a body
// that is not JSON
func NewMalformedServer(t *testing.T) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestCount.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	}))
	t.Cleanup(m.Close)
	return m
}
