package consent

import (
	"context"
	"encoding/json"
	"time"

	"rebatescout/internal/model"
	"rebatescout/internal/storage"
)

const (
	storageKey = "user-consents"

	// maxRecords bounds the log; only the most recent entries are kept.
	maxRecords = 10
)

// Log is the append-only consent trail kept alongside the assessment.
// Writes are best-effort: a failed consent record never interrupts the
// submission that produced it.
type Log struct {
	kv  storage.KV
	now func() time.Time
}

// NewLog creates a consent log over kv.
func NewLog(kv storage.KV) *Log {
	return &Log{kv: kv, now: time.Now}
}

// Track appends a consent record, truncating to the newest maxRecords.
func (l *Log) Track(ctx context.Context, consentType, userAgent string) {
	records, _ := l.Records(ctx)
	records = append(records, model.ConsentRecord{
		Type:      consentType,
		Timestamp: l.now(),
		UserAgent: userAgent,
	})
	if len(records) > maxRecords {
		records = records[len(records)-maxRecords:]
	}
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	l.kv.Set(ctx, storageKey, string(data), 0)
}

// Records returns the stored log, empty when absent or unreadable.
func (l *Log) Records(ctx context.Context) ([]model.ConsentRecord, error) {
	raw, ok, err := l.kv.Get(ctx, storageKey)
	if err != nil || !ok {
		return nil, err
	}
	var records []model.ConsentRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, nil
	}
	return records, nil
}
