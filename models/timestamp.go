package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// maxEpochMillis bounds the instants a client may send, ±100,000,000 days around the epoch.
const maxEpochMillis = 8.64e15

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a client-supplied instant. It accepts epoch milliseconds or a date string;
// null and empty values leave it unset, which binds as SQL NULL. Zero is the epoch.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: true}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return t.parseString(s)
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	return t.setMillis(ms)
}

func (t *Timestamp) parseString(s string) error {
	if s == "" {
		return nil
	}
	if ms, err := strconv.ParseFloat(s, 64); err == nil {
		return t.setMillis(ms)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = NewTimestamp(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t *Timestamp) setMillis(ms float64) error {
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return fmt.Errorf("timestamp %v out of range", ms)
	}
	*t = NewTimestamp(time.UnixMilli(int64(ms)).UTC())
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

// Ptr returns the instant or nil when unset.
func (t Timestamp) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	tt := t.Time
	return &tt
}

// ClickTimestamp is a Timestamp where zero and false also mean unset.
type ClickTimestamp struct {
	Timestamp
}

func (t *ClickTimestamp) UnmarshalJSON(data []byte) error {
	*t = ClickTimestamp{}
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) {
		return nil
	}
	if ms, err := strconv.ParseFloat(string(data), 64); err == nil && ms == 0 {
		return nil
	}
	return t.Timestamp.UnmarshalJSON(data)
}
