package auth

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Parse failures. Callers of Check only ever see false; Verify returns these.
var (
	ErrMissingHeader     = errors.New("authorization header missing")
	ErrUnsupportedScheme = errors.New("unsupported authorization scheme")
	ErrMalformedEncoding = errors.New("malformed credentials encoding")
	ErrMissingSeparator  = errors.New("credentials missing ':' separator")
)

// Credentials is a username/password pair taken from an Authorization header.
// Either field may be empty.
type Credentials struct {
	Name string
	Pass string
}

// encodings tried in order when decoding the credentials token
var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// ParseBasicAuth extracts username and password from an Authorization header.
//
// The value is split on single spaces: the first token is the scheme and must be
// "basic" in any case, the second token is the base64 credentials, anything after
// that is ignored. The decoded text is split at the first colon, so the password
// may contain colons while the username may not.
func ParseBasicAuth(value string, present bool) (Credentials, error) {
	if !present || value == "" {
		return Credentials{}, ErrMissingHeader
	}

	parts := strings.Split(value, " ")
	if strings.ToLower(parts[0]) != "basic" {
		return Credentials{}, ErrUnsupportedScheme
	}
	if len(parts) < 2 || parts[1] == "" {
		return Credentials{}, ErrMalformedEncoding
	}

	decoded, ok := decodeToken(parts[1])
	if !ok {
		return Credentials{}, ErrMalformedEncoding
	}

	name, pass, found := strings.Cut(decoded, ":")
	if !found {
		return Credentials{}, ErrMissingSeparator
	}

	return Credentials{Name: name, Pass: pass}, nil
}

func decodeToken(token string) (string, bool) {
	for _, enc := range encodings {
		raw, err := enc.DecodeString(token)
		if err != nil {
			continue
		}
		return strings.ToValidUTF8(string(raw), "\uFFFD"), true
	}
	return "", false
}
