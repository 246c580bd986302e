package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/tweets/internal/errs"
)

// WireTimeLayout is the only accepted wire timestamp form: UTC with
// millisecond precision.
const WireTimeLayout = "2006-01-02T15:04:05.000Z"

// uuidTextLen is the length of the canonical hyphenated UUID text.
const uuidTextLen = 36

// ParseID parses the canonical text form of a UUID. The urn, braced and
// unhyphenated forms uuid.Parse also accepts are rejected.
func ParseID(wire string) (uuid.UUID, error) {
	if len(wire) != uuidTextLen {
		return uuid.Nil, fmt.Errorf("%w: %q", errs.ErrInvalidIdentifier, wire)
	}

	id, err := uuid.Parse(wire)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", errs.ErrInvalidIdentifier, wire)
	}

	return id, nil
}

// NewID mints a fresh random identifier.
func NewID() uuid.UUID {
	return uuid.New()
}

// FormatWireTime renders t in UTC at millisecond precision.
func FormatWireTime(t time.Time) string {
	return t.UTC().Truncate(time.Millisecond).Format(WireTimeLayout)
}

// ParseWireTime parses a timestamp rendered by FormatWireTime.
func ParseWireTime(s string) (time.Time, error) {
	t, err := time.Parse(WireTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", errs.ErrValidation, s)
	}
	return t.UTC(), nil
}

// ToStorageTime converts t to the form stored in a timestamp column:
// UTC wall clock, truncated to milliseconds.
func ToStorageTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// FromStorageTime reads a naive timestamp column value as UTC.
func FromStorageTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC).
		Truncate(time.Millisecond)
}

// Timestamp is a time.Time that marshals in the wire layout.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalized to UTC milliseconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatWireTime(t.Time))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseWireTime(s)
	if err != nil {
		return err
	}

	t.Time = parsed
	return nil
}
