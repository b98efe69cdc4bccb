package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bapung/basic-auth-check/pkg/auth"
	"github.com/bapung/basic-auth-check/pkg/guard"
	"github.com/bapung/basic-auth-check/pkg/metrics"
	"github.com/bapung/basic-auth-check/pkg/util"
)

// UserHeader carries the authenticated username on successful validation
const UserHeader = "X-Auth-User"

type contextKey struct{}

// Server exposes the basic auth check over HTTP
type Server struct {
	Checker auth.Checker
	Spec    auth.Spec
	Guard   *guard.Guard
	Logger  *zap.SugaredLogger
	// ExposeMetrics mounts the Prometheus handler at /metrics
	ExposeMetrics bool
}

// New creates a Server. A nil guard protects every path.
func New(checker auth.Checker, spec auth.Spec, g *guard.Guard, logger *zap.SugaredLogger) *Server {
	if g == nil {
		g = guard.New("", nil)
	}
	return &Server{
		Checker:       checker,
		Spec:          spec,
		Guard:         g,
		Logger:        logger,
		ExposeMetrics: true,
	}
}

// verify runs the check for r, records the outcome under source and logs failures
func (s *Server) verify(w http.ResponseWriter, r *http.Request, source, requestID string) (auth.Credentials, bool) {
	creds, err := s.Checker.Verify(auth.HTTPRequest(r), auth.HTTPResponse(w), s.Spec)
	metrics.Observe(source, err)
	if err != nil {
		s.Logger.Infof("[%s] Validation failed: %v", requestID, err)
		return auth.Credentials{}, false
	}
	return creds, true
}

// ValidateHandler is a forward-auth endpoint: 200 when the request may pass,
// 401 with a Basic challenge otherwise.
func (s *Server) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	requestID := util.GenerateRequestID()
	path := s.Guard.ForwardedPath(r)
	s.Logger.Debugf("[%s] Validation request: Method=%s, Path=%s", requestID, r.Method, path)
	util.LogQueryParams(s.Logger, requestID, r.URL.Query())

	if !s.Guard.Protected(path) {
		s.Logger.Debugf("[%s] Path %s skips authentication", requestID, path)
		w.WriteHeader(http.StatusOK)
		return
	}

	creds, ok := s.verify(w, r, metrics.SourceValidate, requestID)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	s.Logger.Debugf("[%s] Authorization successful", requestID)
	w.Header().Set(UserHeader, creds.Name)
	w.WriteHeader(http.StatusOK)
}

// Middleware protects next with the basic auth check. The authenticated
// username is available to next through Username. Skip paths are matched
// against the request's own path only.
func (s *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Guard.Protected(s.Guard.RequestPath(r)) {
			next.ServeHTTP(w, r)
			return
		}

		creds, ok := s.verify(w, r, metrics.SourceMiddleware, util.GenerateRequestID())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, creds.Name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Username returns the username stored by Middleware, or "" if none
func Username(ctx context.Context) string {
	if name, ok := ctx.Value(contextKey{}).(string); ok {
		return name
	}
	return ""
}

// Routes builds the service router. admin is mounted at /admin when non-nil.
func (s *Server) Routes(admin http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.ExposeMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.HandleFunc("/validate", s.ValidateHandler)

	if admin != nil {
		r.Mount("/admin", admin)
	}
	return r
}
