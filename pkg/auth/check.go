package auth

import (
	"errors"
	"net/http"
	"strings"
)

// Check failures that happen after the header has been parsed.
var (
	ErrNoMatch     = errors.New("credentials did not match")
	ErrInvalidSpec = errors.New("no usable credentials spec")
)

// Header names and the default realm advertised in the challenge.
const (
	AuthorizationHeader = "Authorization"
	ChallengeHeader     = "WWW-Authenticate"
	DefaultRealm        = "example"
)

// Request is the part of an incoming request the check reads.
type Request interface {
	// GetHeader returns the header value and whether the header was present.
	GetHeader(name string) (string, bool)
}

// Response is the part of an outgoing response the check writes.
type Response interface {
	SetHeader(name, value string)
}

// Checker validates Basic credentials against a Spec and advertises a realm.
// The zero value uses DefaultRealm. A Checker is safe for concurrent use.
type Checker struct {
	Realm string
}

// Challenge returns the WWW-Authenticate value for the checker's realm.
func (ch Checker) Challenge() string {
	realm := ch.Realm
	if realm == "" {
		realm = DefaultRealm
	}
	return `Basic realm="` + quoteEscaper.Replace(realm) + `"`
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Verify sets the challenge header on res, parses the Authorization header of
// req and matches it against spec. The returned error is one of the package
// sentinels; on success the parsed credentials are returned.
func (ch Checker) Verify(req Request, res Response, spec Spec) (Credentials, error) {
	res.SetHeader(ChallengeHeader, ch.Challenge())

	value, present := req.GetHeader(AuthorizationHeader)
	creds, err := ParseBasicAuth(value, present)
	if err != nil {
		return Credentials{}, err
	}

	if !validSpec(spec) {
		return Credentials{}, ErrInvalidSpec
	}
	if !spec.matches(creds) {
		return Credentials{}, ErrNoMatch
	}
	return creds, nil
}

// Check reports whether req carries Basic credentials accepted by spec.
// The challenge header is always set on res, whatever the outcome.
func (ch Checker) Check(req Request, res Response, spec Spec) bool {
	_, err := ch.Verify(req, res, spec)
	return err == nil
}

// Check runs the default Checker.
//
//	ok := auth.Check(auth.HTTPRequest(r), auth.HTTPResponse(w), auth.Pairs{{"user1", "pass1"}})
//	if !ok {
//		w.WriteHeader(http.StatusUnauthorized)
//		return
//	}
func Check(req Request, res Response, spec Spec) bool {
	return Checker{}.Check(req, res, spec)
}

type httpRequest struct{ r *http.Request }

func (h httpRequest) GetHeader(name string) (string, bool) {
	values := h.r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// HTTPRequest adapts an *http.Request to Request.
func HTTPRequest(r *http.Request) Request {
	return httpRequest{r: r}
}

type httpResponse struct{ w http.ResponseWriter }

func (h httpResponse) SetHeader(name, value string) {
	h.w.Header().Set(name, value)
}

// HTTPResponse adapts an http.ResponseWriter to Response.
func HTTPResponse(w http.ResponseWriter) Response {
	return httpResponse{w: w}
}
