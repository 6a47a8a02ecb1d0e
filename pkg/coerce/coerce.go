package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coercer converts a raw external value (typically a decoded request payload
// entry) into a field's declared type. Implementations fail explicitly via the
// returned error; they never panic on malformed input.
type Coercer func(raw any) (any, error)

// Canonical type names understood by the default registry. They match the
// schema field type identifiers so a field's type string doubles as the
// registry key.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Error describes a failed conversion. It carries the target type and the
// offending value so callers can build field-level messages without string
// matching.
type Error struct {
	Type  string
	Value any
	Err   error
}

func (e Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("coerce: cannot convert %v (%T) to %s: %v", e.Value, e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("coerce: cannot convert %v (%T) to %s", e.Value, e.Value, e.Type)
}

func (e Error) Unwrap() error {
	return e.Err
}

func failure(typ string, raw any, err error) (any, error) {
	return nil, Error{Type: typ, Value: raw, Err: err}
}

// String converts scalar input to a string. Structured values (maps, slices)
// are rejected so object-shaped payloads cannot collapse into scalar fields.
func String(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return failure(TypeString, raw, nil)
	}
}

// Integer converts numeric or numeric-string input to int64. A blank string is
// treated as absent and coerces to nil. Fractional values are rejected rather
// than truncated.
func Integer(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return failure(TypeInteger, raw, fmt.Errorf("fractional value"))
		}
		return int64(v), nil
	case float32:
		return Integer(float64(v))
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return failure(TypeInteger, raw, err)
		}
		return parsed, nil
	default:
		return failure(TypeInteger, raw, nil)
	}
}

// Number converts numeric or numeric-string input to float64. Blank strings
// coerce to nil like Integer.
func Number(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return failure(TypeNumber, raw, err)
		}
		return parsed, nil
	default:
		return failure(TypeNumber, raw, nil)
	}
}

// Boolean accepts bool values plus the usual checkbox/query-string spellings
// ("true", "on", "yes", "1" and their negatives). Blank strings coerce to nil.
func Boolean(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return nil, nil
		case "true", "on", "yes", "1":
			return true, nil
		case "false", "off", "no", "0":
			return false, nil
		default:
			return failure(TypeBoolean, raw, fmt.Errorf("unrecognised boolean literal %q", v))
		}
	case int, int64:
		return fmt.Sprint(v) != "0", nil
	case float64:
		return v != 0, nil
	default:
		return failure(TypeBoolean, raw, nil)
	}
}
