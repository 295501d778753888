package ratelimit

import (
	"context"
	"encoding/json"
	"time"

	"rebatescout/internal/storage"
)

const (
	// storageKey holds the current window inside the session namespace.
	storageKey = "form-submission-rate"

	// MaxSubmissions is the attempt cap per window.
	MaxSubmissions = 5

	// Window is the length of the submission window.
	Window = 15 * time.Minute
)

// window is the persisted counter state.
type window struct {
	Count     int   `json:"count"`
	ResetTime int64 `json:"resetTime"` // epoch milliseconds
}

// Limiter caps contact-form submissions to MaxSubmissions per Window.
// Storage failures allow the submission: losing a rate check must never
// block the conversion funnel.
type Limiter struct {
	kv  storage.KV
	now func() time.Time
}

// New creates a Limiter over kv.
func New(kv storage.KV) *Limiter {
	return &Limiter{kv: kv, now: time.Now}
}

// Check consumes one submission attempt. It returns true when allowed. A
// missing or elapsed window resets to count 1; a full window denies
// without mutating state.
func (l *Limiter) Check(ctx context.Context) bool {
	nowMs := l.now().UnixMilli()

	raw, ok, err := l.kv.Get(ctx, storageKey)
	if err != nil {
		return true
	}
	if !ok {
		return l.write(ctx, window{Count: 1, ResetTime: nowMs + Window.Milliseconds()})
	}

	var w window
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return l.write(ctx, window{Count: 1, ResetTime: nowMs + Window.Milliseconds()})
	}

	if nowMs > w.ResetTime {
		return l.write(ctx, window{Count: 1, ResetTime: nowMs + Window.Milliseconds()})
	}
	if w.Count >= MaxSubmissions {
		return false
	}
	w.Count++
	return l.write(ctx, w)
}

func (l *Limiter) write(ctx context.Context, w window) bool {
	data, err := json.Marshal(w)
	if err != nil {
		return true
	}
	// Keep the record around a little past its reset so expiry is lazy.
	l.kv.Set(ctx, storageKey, string(data), 2*Window)
	return true
}
