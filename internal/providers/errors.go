package providers

import (
	"errors"
	"strings"
)

// ErrRateLimited is returned when the generation service throttles a call.
var ErrRateLimited = errors.New("generation service rate limit exceeded")

// IsRateLimit reports whether err is a throttling signal, either the sentinel
// itself or an upstream message that reads like one.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "rate limit") || strings.Contains(e, "429")
}
