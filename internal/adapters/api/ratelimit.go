package api

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimit is the quota reported by the X-RateLimit-* headers of the most
// recent response. A zero Limit means no response carried the headers yet.
type RateLimit struct {
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// Exhausted reports whether the last response said no calls are left.
func (r RateLimit) Exhausted() bool {
	return r.Limit > 0 && r.Remaining == 0
}

func parseRateLimit(h http.Header) (RateLimit, bool) {
	limit, err := strconv.ParseInt(h.Get("X-RateLimit-Limit"), 10, 64)
	if err != nil {
		return RateLimit{}, false
	}
	remaining, err := strconv.ParseInt(h.Get("X-RateLimit-Remaining"), 10, 64)
	if err != nil {
		return RateLimit{}, false
	}

	rl := RateLimit{Limit: limit, Remaining: remaining}
	if reset, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rl.Reset = time.Unix(reset, 0).UTC()
	}
	return rl, true
}
