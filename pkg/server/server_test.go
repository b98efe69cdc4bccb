package server

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/bapung/basic-auth-check/pkg/auth"
	"github.com/bapung/basic-auth-check/pkg/guard"
	"github.com/bapung/basic-auth-check/pkg/metrics"
)

func basicHeader(userPass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(userPass))
}

func newTestServer(spec auth.Spec) *Server {
	return New(auth.Checker{Realm: "test"}, spec, guard.New("", []string{"/public"}), zap.NewNop().Sugar())
}

func TestValidateHandler(t *testing.T) {
	pairs := auth.Pairs{{Username: "admin", Password: "admin"}}

	tests := []struct {
		name           string
		spec           auth.Spec
		target         string
		authHeader     string
		expectedStatus int
		expectedUser   string
		checkHeader    bool
	}{
		{
			name:           "valid credentials",
			spec:           pairs,
			target:         "/validate",
			authHeader:     "Basic YWRtaW46YWRtaW4=",
			expectedStatus: http.StatusOK,
			expectedUser:   "admin",
			checkHeader:    true,
		},
		{
			name:           "invalid credentials",
			spec:           pairs,
			target:         "/validate",
			authHeader:     basicHeader("admin:wrong"),
			expectedStatus: http.StatusUnauthorized,
			checkHeader:    true,
		},
		{
			name:           "missing header",
			spec:           pairs,
			target:         "/validate",
			expectedStatus: http.StatusUnauthorized,
			checkHeader:    true,
		},
		{
			name:           "wrong scheme",
			spec:           pairs,
			target:         "/validate",
			authHeader:     "Bearer abc",
			expectedStatus: http.StatusUnauthorized,
			checkHeader:    true,
		},
		{
			name:           "predicate spec",
			spec:           auth.Predicate(func(c auth.Credentials) bool { return c.Pass == "letmein" }),
			target:         "/validate",
			authHeader:     basicHeader("anyone:letmein"),
			expectedStatus: http.StatusOK,
			expectedUser:   "anyone",
			checkHeader:    true,
		},
		{
			name:           "nil spec",
			spec:           nil,
			target:         "/validate",
			authHeader:     "Basic YWRtaW46YWRtaW4=",
			expectedStatus: http.StatusUnauthorized,
			checkHeader:    true,
		},
		{
			name:           "skipped path",
			spec:           pairs,
			target:         "/validate?path=/public",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.spec)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			s.Routes(nil).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedUser, w.Header().Get(UserHeader))
			if tt.checkHeader {
				assert.Equal(t, `Basic realm="test"`, w.Header().Get("WWW-Authenticate"))
			} else {
				assert.Empty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	s := newTestServer(auth.Pairs{{Username: "alice", Password: "secret"}})

	var seen string
	handler := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = Username(r.Context())
		w.Write([]byte("success"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.SetBasicAuth("alice", "secret")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())
	assert.Equal(t, "alice", seen)

	seen = ""
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.SetBasicAuth("alice", "wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Basic realm="test"`, w.Header().Get("WWW-Authenticate"))
	assert.Empty(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, seen)

	// the path query only means something to the forward-auth endpoint
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private?path=/public", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEqual(t, "success", w.Body.String())
}

func TestMiddlewareIgnoresPathQuery(t *testing.T) {
	tests := []struct {
		name string
		spec auth.Spec
	}{
		{"nil spec", nil},
		{"pairs", auth.Pairs{{Username: "alice", Password: "secret"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.spec)
			reached := false
			handler := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			}))

			req := httptest.NewRequest(http.MethodGet, "/private?path=/public", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, reached)
		})
	}
}

func TestMiddlewareCountsAsMiddleware(t *testing.T) {
	s := newTestServer(auth.Pairs{})
	counter := metrics.ChecksTotal.WithLabelValues(metrics.SourceMiddleware, metrics.ResultMissingHeader)
	before := testutil.ToFloat64(counter)

	handler := s.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestUsernameEmptyContext(t *testing.T) {
	assert.Empty(t, Username(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(nil).Routes(nil)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/validate", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "basicauth_checks_total")
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(nil)
	s.ExposeMetrics = false

	w := httptest.NewRecorder()
	s.Routes(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
