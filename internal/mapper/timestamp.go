package mapper

import (
	"fmt"
	"time"
)

// TimestampLayout is the canonical stored text form: UTC with fixed-width
// microseconds, so stored values sort lexically in time order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp. Values that are already
// time.Time pass through, so reads are idempotent.
func ParseTimestamp(v interface{}) (time.Time, error) {
	switch ts := v.(type) {
	case time.Time:
		return ts.UTC(), nil
	case *time.Time:
		if ts == nil {
			return time.Time{}, fmt.Errorf("nil timestamp")
		}
		return ts.UTC(), nil
	case string:
		return parseTimestampText(ts)
	case []byte:
		return parseTimestampText(string(ts))
	case nil:
		return time.Time{}, fmt.Errorf("missing timestamp")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampText(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	// RFC3339Nano also accepts offsets like +00:00 and any fraction width.
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
