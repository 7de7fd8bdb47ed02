package server_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/rolegate/internal/auth"
	"github.com/omarluq/rolegate/internal/config"
	"github.com/omarluq/rolegate/internal/remote"
	"github.com/omarluq/rolegate/internal/server"
	"github.com/omarluq/rolegate/internal/userstore"
)

func optional() *bool {
	v := false
	return &v
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Realm: "ops",
			Users: []config.UserConfig{
				{Name: "alice", Password: "wonderland", Roles: []string{"admin", "ops"}},
				{Name: "bob", Password: "builder", Roles: []string{"ops"}},
			},
		},
		Endpoints: []config.EndpointConfig{
			{Path: "/admin", Roles: []string{"admin"}},
			{Method: "post", Path: "/deploy", Roles: []string{"ops"}},
			{Path: "/public", Required: optional()},
		},
	}
}

func buildTestHandler(cfg *config.Config, breaker server.BreakerStater) (http.Handler, error) {
	store := userstore.New(config.NewRuntime(cfg))
	gate := auth.NewGate[userstore.Principal](store, cfg.Auth.GetRealm())
	return server.SetupRoutes(cfg, gate, breaker)
}

func newTestHandler(t *testing.T, cfg *config.Config, breaker server.BreakerStater) http.Handler {
	t.Helper()

	handler, err := buildTestHandler(cfg, breaker)
	require.NoError(t, err)
	return handler
}

func basic(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestSetupRoutes(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, testConfig(), nil)

	tests := []struct {
		name       string
		method     string
		path       string
		authHeader string
		wantUser   string
		wantStatus int
		wantAuthed bool
	}{
		{name: "admin with admin", method: http.MethodGet, path: "/admin", authHeader: basic("alice", "wonderland"), wantStatus: http.StatusOK, wantAuthed: true, wantUser: "alice"},
		{name: "admin without role", method: http.MethodGet, path: "/admin", authHeader: basic("bob", "builder"), wantStatus: http.StatusUnauthorized},
		{name: "admin no header", method: http.MethodGet, path: "/admin", wantStatus: http.StatusUnauthorized},
		{name: "admin bearer", method: http.MethodGet, path: "/admin", authHeader: "Bearer abc", wantStatus: http.StatusUnauthorized},
		{name: "deploy post", method: http.MethodPost, path: "/deploy", authHeader: basic("bob", "builder"), wantStatus: http.StatusOK, wantAuthed: true, wantUser: "bob"},
		{name: "deploy wrong method", method: http.MethodGet, path: "/deploy", authHeader: basic("bob", "builder"), wantStatus: http.StatusMethodNotAllowed},
		{name: "public anonymous", method: http.MethodGet, path: "/public", wantStatus: http.StatusOK},
		{name: "public bad password", method: http.MethodGet, path: "/public", authHeader: basic("bob", "nope"), wantStatus: http.StatusOK},
		{name: "public with user", method: http.MethodGet, path: "/public", authHeader: basic("bob", "builder"), wantStatus: http.StatusOK, wantAuthed: true, wantUser: "bob"},
		{name: "unknown path", method: http.MethodGet, path: "/missing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.authHeader != "" {
				req.Header.Set(auth.HeaderAuthorization, tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if rec.Code == http.StatusUnauthorized {
				assert.Equal(t, `Basic realm="ops"`, rec.Header().Get(auth.HeaderWWWAuthenticate))
				assert.Equal(t, auth.UnauthorizedMessage, rec.Body.String())
				return
			}
			if rec.Code != http.StatusOK {
				return
			}

			var body server.Identity
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantAuthed, body.Authenticated)
			if tt.wantAuthed {
				require.NotNil(t, body.Principal)
				assert.Equal(t, tt.wantUser, body.Principal.Name)
			} else {
				assert.Nil(t, body.Principal)
			}
		})
	}
}

func TestSetupRoutesSetsRequestID(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t, testConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/public", http.NoBody)
	req.Header.Set(server.HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(server.HeaderRequestID))
}

type fixedBreaker remote.State

func (b fixedBreaker) State() remote.State { return remote.State(b) }

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		breaker server.BreakerStater
		name    string
		want    string
	}{
		{name: "no remote", want: `{"status":"ok"}`},
		{name: "remote closed", breaker: fixedBreaker(remote.StateClosed), want: `{"status":"ok","remote":"closed"}`},
		{name: "remote open", breaker: fixedBreaker(remote.StateOpen), want: `{"status":"degraded","remote":"open"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := newTestHandler(t, testConfig(), tt.breaker)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestEndpointFromConfig(t *testing.T) {
	t.Parallel()

	required := server.EndpointFromConfig(&config.EndpointConfig{Roles: []string{"a", "b"}})
	assert.True(t, required.Required())
	assert.Equal(t, []string{"a", "b"}, required.Roles())

	opt := server.EndpointFromConfig(&config.EndpointConfig{Required: optional()})
	assert.False(t, opt.Required())
}

func TestLiveHandlerRebuild(t *testing.T) {
	t.Parallel()

	live, err := server.NewLiveHandler(testConfig(), func(cfg *config.Config) (http.Handler, error) {
		return buildTestHandler(cfg, nil)
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", http.NoBody))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	next := testConfig()
	next.Endpoints = append(next.Endpoints, config.EndpointConfig{Path: "/reports", Required: optional()})
	require.NoError(t, live.Rebuild(next))

	rec = httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetupRoutesRejectsUnusablePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		endpoint config.EndpointConfig
		want     string
	}{
		{
			name:     "health path",
			endpoint: config.EndpointConfig{Path: "/health"},
			want:     `"GET /health"`,
		},
		{
			name:     "malformed wildcard",
			endpoint: config.EndpointConfig{Path: "/{bad"},
			want:     "bad wildcard segment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Endpoints = append(cfg.Endpoints, tt.endpoint)

			var (
				handler http.Handler
				err     error
			)
			require.NotPanics(t, func() {
				handler, err = buildTestHandler(cfg, nil)
			})
			require.Error(t, err)
			assert.Nil(t, handler)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetupRoutesRejectsConflictingEndpoints(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Endpoints = append(cfg.Endpoints,
		config.EndpointConfig{Path: "/{team}/reports"},
		config.EndpointConfig{Path: "/admin/{report}"},
	)

	_, err := buildTestHandler(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/admin/{report}")
}

func TestLiveHandlerKeepsRoutesWhenRebuildFails(t *testing.T) {
	t.Parallel()

	live, err := server.NewLiveHandler(testConfig(), func(cfg *config.Config) (http.Handler, error) {
		return buildTestHandler(cfg, nil)
	})
	require.NoError(t, err)

	broken := testConfig()
	broken.Endpoints = append(broken.Endpoints, config.EndpointConfig{Path: "/{bad"})
	require.Error(t, live.Rebuild(broken))

	rec := httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	live.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewLiveHandlerFailsOnUnusableConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Endpoints = append(cfg.Endpoints, config.EndpointConfig{Path: "/health"})

	live, err := server.NewLiveHandler(cfg, func(cfg *config.Config) (http.Handler, error) {
		return buildTestHandler(cfg, nil)
	})
	require.Error(t, err)
	assert.Nil(t, live)
}
