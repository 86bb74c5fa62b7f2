package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a punch clock value as submitted by the devices. The
// column stays a MySQL-style datetime string, but every comparison goes
// through time.Time so record ordering never depends on string
// collation. A zero Timestamp marks a missing or unparseable value and
// sorts before everything else.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Truncate(time.Second)}
}

// ParseTimestamp is lenient: devices have historically sent both the
// MySQL layout and RFC3339. Anything else comes back as the zero value.
func ParseTimestamp(s string) Timestamp {
	if s == "" {
		return Timestamp{}
	}
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return Timestamp{t}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Timestamp{t}
	}
	return Timestamp{}
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(TimestampLayout), nil
}

func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	case []byte:
		t.Time = ParseTimestamp(string(v)).Time
	case string:
		t.Time = ParseTimestamp(v).Time
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t.Time = ParseTimestamp(s).Time
	return nil
}
