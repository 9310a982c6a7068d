package services

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitInfo holds the latest throttle state reported by one reasoning
// backend.
type RateLimitInfo struct {
	Provider string `json:"provider"`

	LimitRequests     int    `json:"limit_requests"`
	RemainingRequests int    `json:"remaining_requests"`
	ResetRequests     string `json:"reset_requests"`
	ResetRequestsAt   *int64 `json:"reset_requests_at"`

	LimitTokens     int    `json:"limit_tokens"`
	RemainingTokens int    `json:"remaining_tokens"`
	ResetTokens     string `json:"reset_tokens"`
	ResetTokensAt   *int64 `json:"reset_tokens_at"`

	Throttled  bool   `json:"throttled"`
	StatusCode int    `json:"status_code"`
	UpdatedAt  int64  `json:"updated_at"`
	UpdatedAgo string `json:"updated_ago"`
}

// RateLimitTracker records the last response state per provider for the
// /api/limits endpoint.
type RateLimitTracker struct {
	mu    sync.RWMutex
	store map[string]*RateLimitInfo
	now   func() time.Time
}

func NewRateLimitTracker() *RateLimitTracker {
	return &RateLimitTracker{store: map[string]*RateLimitInfo{}, now: time.Now}
}

// Update stores the state derived from a response. header may be nil for
// backends that expose only a status code.
func (t *RateLimitTracker) Update(provider string, header http.Header, statusCode int) {
	if t == nil {
		return
	}
	now := t.now()
	info := &RateLimitInfo{
		Provider:          provider,
		StatusCode:        statusCode,
		Throttled:         statusCode == http.StatusTooManyRequests,
		UpdatedAt:         now.UnixMilli(),
		LimitRequests:     -1,
		RemainingRequests: -1,
		LimitTokens:       -1,
		RemainingTokens:   -1,
	}

	if header != nil {
		info.LimitRequests = headerInt(header, "X-Ratelimit-Limit-Requests")
		info.RemainingRequests = headerInt(header, "X-Ratelimit-Remaining-Requests")
		info.ResetRequests = header.Get("X-Ratelimit-Reset-Requests")
		info.LimitTokens = headerInt(header, "X-Ratelimit-Limit-Tokens")
		info.RemainingTokens = headerInt(header, "X-Ratelimit-Remaining-Tokens")
		info.ResetTokens = header.Get("X-Ratelimit-Reset-Tokens")
		info.ResetRequestsAt = resetAt(now, info.ResetRequests)
		info.ResetTokensAt = resetAt(now, info.ResetTokens)
	}

	t.mu.Lock()
	t.store[provider] = info
	t.mu.Unlock()
}

// Snapshot returns copies of every provider's state.
func (t *RateLimitTracker) Snapshot() map[string]*RateLimitInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]*RateLimitInfo, len(t.store))
	now := t.now()
	for k, v := range t.store {
		cp := *v
		ago := now.Sub(time.UnixMilli(v.UpdatedAt))
		if ago < time.Minute {
			cp.UpdatedAgo = strconv.Itoa(int(ago.Seconds())) + "s ago"
		} else {
			cp.UpdatedAgo = strconv.Itoa(int(ago.Minutes())) + "m ago"
		}
		out[k] = &cp
	}
	return out
}

func resetAt(now time.Time, reset string) *int64 {
	if reset == "" {
		return nil
	}
	d, err := time.ParseDuration(reset)
	if err != nil {
		return nil
	}
	ms := now.Add(d).UnixMilli()
	return &ms
}

// headerInt returns -1 when the header is absent or malformed.
func headerInt(h http.Header, key string) int {
	v := h.Get(key)
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
