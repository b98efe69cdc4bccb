package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bapung/basic-auth-check/pkg/auth"
)

// Result labels
const (
	ResultOK                = "ok"
	ResultMissingHeader     = "missing_header"
	ResultUnsupportedScheme = "unsupported_scheme"
	ResultMalformedEncoding = "malformed_encoding"
	ResultMissingSeparator  = "missing_separator"
	ResultNoMatch           = "no_match"
	ResultInvalidSpec       = "invalid_spec"
	ResultError             = "error"
)

// Sources of a check
const (
	SourceValidate   = "validate"
	SourceMiddleware = "middleware"
	SourceAdmin      = "admin"
)

// ChecksTotal counts basic auth checks by source and result.
var ChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "basicauth_checks_total",
		Help: "Number of basic auth checks by source and result.",
	},
	[]string{"source", "result"},
)

func init() {
	prometheus.MustRegister(ChecksTotal)
}

var reasons = []struct {
	err    error
	result string
}{
	{auth.ErrMissingHeader, ResultMissingHeader},
	{auth.ErrUnsupportedScheme, ResultUnsupportedScheme},
	{auth.ErrMalformedEncoding, ResultMalformedEncoding},
	{auth.ErrMissingSeparator, ResultMissingSeparator},
	{auth.ErrNoMatch, ResultNoMatch},
	{auth.ErrInvalidSpec, ResultInvalidSpec},
}

// Reason maps a check error to its result label
func Reason(err error) string {
	if err == nil {
		return ResultOK
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.result
		}
	}
	return ResultError
}

// Observe records the outcome of one check made by source
func Observe(source string, err error) {
	ChecksTotal.WithLabelValues(source, Reason(err)).Inc()
}
