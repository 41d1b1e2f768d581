package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/snapapi-hq/snapapi-go/internal/domain"
)

var errEmptyKey = errors.New("task key is empty")

// stampRecord fills the bookkeeping fields of rec for a mark at now.
func stampRecord(key string, rec domain.TaskRecord, now time.Time, ttl time.Duration) (domain.TaskRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.TaskRecord{}, errEmptyKey
	}
	rec.Key = key
	rec.MarkedAt = now.UTC()
	rec.ExpiresAt = rec.MarkedAt.Add(ttl)
	return rec, nil
}

func encodeRecord(rec domain.TaskRecord) ([]byte, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode task record %s: %w", rec.Key, err)
	}
	return raw, nil
}

// decodeRecord returns false for values that are not task records, such as
// entries written by older versions.
func decodeRecord(raw []byte) (domain.TaskRecord, bool) {
	var rec domain.TaskRecord
	if len(raw) == 0 || raw[0] != '{' {
		return domain.TaskRecord{}, false
	}
	if err := json.Unmarshal(raw, &rec); err != nil || rec.Key == "" {
		return domain.TaskRecord{}, false
	}
	return rec, true
}
