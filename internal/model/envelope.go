package model

import "time"

// Envelope is the persisted form of an in-progress assessment. It is
// serialized to JSON, encrypted and stored under a fixed key; ExpiresAt is
// epoch milliseconds so expiry survives round-trips through any client.
type Envelope struct {
	Data      AnswerSet `json:"data"`
	Step      int       `json:"step"`
	Timestamp time.Time `json:"timestamp"`
	ExpiresAt int64     `json:"expiresAt"`
}

// Expired reports whether the envelope's retention window has passed.
func (e *Envelope) Expired(now time.Time) bool {
	return now.UnixMilli() > e.ExpiresAt
}
