package util

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateRequestID creates a short ID for each request for tracking through logs.
// It is the first 4 random bytes of a v4 UUID, hex encoded.
func GenerateRequestID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:4])
}

// GenerateUUID creates a UUID v4 for use as user IDs
func GenerateUUID() string {
	return uuid.NewString()
}

// IsSensitiveKey reports whether a parameter or header name may carry secrets
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	return k == "key" || strings.Contains(k, "password") ||
		strings.Contains(k, "token") || strings.Contains(k, "auth") || strings.Contains(k, "secret")
}

// SanitizeParams copies params, replacing sensitive values with [REDACTED]
func SanitizeParams(params map[string][]string) map[string]interface{} {
	sanitized := make(map[string]interface{}, len(params))
	for key, values := range params {
		switch {
		case IsSensitiveKey(key):
			sanitized[key] = "[REDACTED]"
		case len(values) == 1:
			sanitized[key] = values[0]
		default:
			sanitized[key] = values
		}
	}
	return sanitized
}

// LogQueryParams logs query parameters, hiding sensitive information
func LogQueryParams(logger *zap.SugaredLogger, requestID string, params map[string][]string) {
	if len(params) == 0 {
		return
	}
	logger.Debugf("[%s] Query parameters: %v", requestID, SanitizeParams(params))
}
