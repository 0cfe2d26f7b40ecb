package store

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Match reports whether doc satisfies every field of filter.
func Match(doc Document, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok || compareValues(got, want) != 0 {
			return false
		}
	}
	return true
}

// Apply filters, stable-sorts and limits docs in process. It is used by
// the backends that cannot push the query down to the server.
func Apply(docs []Document, filter Filter, sorts []Sort, limit int) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if Match(d, filter) {
			out = append(out, d)
		}
	}

	if len(sorts) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, s := range sorts {
				c := compareValues(out[i][s.Field], out[j][s.Field])
				if c == 0 {
					continue
				}
				if s.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// compareValues orders two field values. Missing values sort first.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	return strings.Compare(toString(a), toString(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
