package guard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForwardedPath(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		target   string
		expected string
	}{
		{"request path", "", "/api/items", "/api/items"},
		{"query path", "", "/validate?path=/api/items", "/api/items"},
		{"query path with query", "", "/validate?path=%2Fapi%2Fitems%3Fx%3D1", "/api/items"},
		{"prefix stripped", "/app", "/app/health", "/health"},
		{"prefix with slash", "/app/", "/validate?path=/app/health", "/health"},
		{"prefix not matching", "/app", "/other/health", "/other/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.prefix, nil)
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.expected, g.ForwardedPath(r))
		})
	}
}

func TestRequestPathIgnoresQuery(t *testing.T) {
	g := New("/app", nil)

	r := httptest.NewRequest(http.MethodGet, "/private?path=/public", nil)
	assert.Equal(t, "/private", g.RequestPath(r))

	r = httptest.NewRequest(http.MethodGet, "/app/health?path=/other", nil)
	assert.Equal(t, "/health", g.RequestPath(r))
}

func TestProtected(t *testing.T) {
	g := New("/app", []string{"/health", "/metrics"})

	assert.False(t, g.Protected(g.RequestPath(httptest.NewRequest(http.MethodGet, "/health", nil))))
	assert.False(t, g.Protected(g.RequestPath(httptest.NewRequest(http.MethodGet, "/app/metrics", nil))))
	assert.False(t, g.Protected(g.ForwardedPath(httptest.NewRequest(http.MethodGet, "/validate?path=/app/health", nil))))
	assert.True(t, g.Protected(g.RequestPath(httptest.NewRequest(http.MethodGet, "/validate?path=/app/health", nil))))
	assert.True(t, g.Protected(g.RequestPath(httptest.NewRequest(http.MethodGet, "/admin", nil))))
	assert.True(t, g.Protected("/health/deep"))
}
