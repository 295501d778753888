package model

import "time"

// Lead is a completed assessment captured for follow-up.
type Lead struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	SessionID   string         `json:"sessionId" bson:"sessionId"`
	Data        AnswerSet      `json:"data" bson:"data"`
	Estimate    RebateEstimate `json:"estimate" bson:"estimate"`
	SubmittedAt time.Time      `json:"submittedAt" bson:"submittedAt"`
}

// ConsentRecord is one entry in the append-only consent log.
type ConsentRecord struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	UserAgent string    `json:"userAgent"`
}
