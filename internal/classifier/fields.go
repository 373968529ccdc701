package classifier

import (
	"fmt"

	"starlog/internal/model"
)

// strField returns the first matching non-empty string value from a record.
func strField(r model.RawRecord, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// numField returns the first matching numeric value from a record.
// JSON numbers decode to float64; integers stored as float64 are accepted too.
func numField(r model.RawRecord, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			switch n := v.(type) {
			case float64:
				return n, true
			case int:
				return float64(n), true
			case int64:
				return float64(n), true
			}
		}
	}
	return 0, false
}

// intField returns the first matching numeric value truncated to int64.
func intField(r model.RawRecord, keys ...string) (int64, bool) {
	if f, ok := numField(r, keys...); ok {
		return int64(f), true
	}
	return 0, false
}

// boolField returns the first matching boolean value from a record.
func boolField(r model.RawRecord, keys ...string) (bool, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok {
			if b, ok := v.(bool); ok {
				return b, true
			}
		}
	}
	return false, false
}

// putStr copies the first matching string field into kd under name.
func putStr(kd map[string]any, r model.RawRecord, name string, keys ...string) {
	if v, ok := strField(r, keys...); ok {
		kd[name] = v
	}
}

// putNum copies the first matching numeric field into kd under name.
func putNum(kd map[string]any, r model.RawRecord, name string, keys ...string) {
	if v, ok := numField(r, keys...); ok {
		kd[name] = v
	}
}

// putInt copies the first matching numeric field into kd as int64.
func putInt(kd map[string]any, r model.RawRecord, name string, keys ...string) {
	if v, ok := intField(r, keys...); ok {
		kd[name] = v
	}
}

// putBool copies the first matching boolean field into kd under name.
func putBool(kd map[string]any, r model.RawRecord, name string, keys ...string) {
	if v, ok := boolField(r, keys...); ok {
		kd[name] = v
	}
}

// credits renders an integer credit amount with the CR suffix.
func credits(n int64) string {
	return fmt.Sprintf("%d CR", n)
}
