package migrate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/varoOP/mediadb/internal/media"
)

// coerce converts a legacy value to the Go type of a field of kind k. The
// second result is false when the value is incompatible with the field.
func coerce(k media.Kind, v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	switch k {
	case media.KindString:
		return toString(v)
	case media.KindInt:
		return toInt(v)
	case media.KindFloat:
		return toFloat(v)
	case media.KindBool:
		return toBool(v)
	case media.KindStrings:
		return toStrings(v)
	}
	return nil, false
}

func toString(v any) (any, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	if !isScalar(v) {
		return nil, false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, false
	}
	return s, true
}

func toInt(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		return nil, false
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 0)
		if err != nil {
			return nil, false
		}
		return int(n), true
	case int, int8, int16, int32, int64:
		n, err := cast.ToInt64E(v)
		if err != nil || n < math.MinInt || n > math.MaxInt {
			return nil, false
		}
		return int(n), true
	case uint, uint8, uint16, uint32, uint64:
		n, err := cast.ToUint64E(v)
		if err != nil || n > math.MaxInt {
			return nil, false
		}
		return int(n), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			if n < math.MinInt || n > math.MaxInt {
				return nil, false
			}
			return int(n), true
		}
	}
	if !isNumber(v) {
		return nil, false
	}
	f, ok := finiteFloat(v)
	if !ok || f != math.Trunc(f) {
		return nil, false
	}
	// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
	if f < math.MinInt || f >= -math.MinInt {
		return nil, false
	}
	return int(f), true
}

func toFloat(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		return nil, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return f, true
	}
	if !isNumber(v) {
		return nil, false
	}
	f, ok := finiteFloat(v)
	if !ok {
		return nil, false
	}
	return f, true
}

// finiteFloat converts a number to float64. NaN and infinities are rejected
// since they cannot be persisted.
func finiteFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	if n, ok := v.(json.Number); ok {
		f, err = n.Float64()
	} else {
		f, err = cast.ToFloat64E(v)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBool(v any) (any, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return nil, false
}

func toStrings(v any) (any, bool) {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil || !isScalar(item) {
				return nil, false
			}
			s, err := cast.ToStringE(item)
			if err != nil {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool:
		return true
	}
	return isNumber(v)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}
