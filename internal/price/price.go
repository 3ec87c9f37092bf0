package price

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
)

// leadingNumber matches the numeric prefix of a cleaned price string, so "0.02/image" reads as 0.02.
var leadingNumber = regexp2.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?`, regexp2.None)

// Parse normalizes a price from an untrusted source. It never fails: anything that is not
// a finite number, or a string holding one, comes back as nil.
func Parse(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return finite(float64(v))
	case int8:
		return finite(float64(v))
	case int16:
		return finite(float64(v))
	case int32:
		return finite(float64(v))
	case int64:
		return finite(float64(v))
	case uint:
		return finite(float64(v))
	case uint8:
		return finite(float64(v))
	case uint16:
		return finite(float64(v))
	case uint32:
		return finite(float64(v))
	case uint64:
		return finite(float64(v))
	case uintptr:
		return finite(float64(v))
	case json.Number:
		return ParseString(v.String())
	case *float64:
		if v == nil {
			return nil
		}
		return finite(*v)
	case string:
		return ParseString(v)
	default:
		return nil
	}
}

// ParseString strips currency symbols, thousands separators and whitespace before parsing.
func ParseString(s string) *float64 {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return nil
	}
	m, err := leadingNumber.FindStringMatch(cleaned)
	if err != nil || m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m.String(), 64)
	if err != nil {
		return nil
	}
	return finite(f)
}

// Format renders an optional price for humans.
func Format(p *float64) string {
	if p == nil {
		return "—"
	}
	return "$" + strconv.FormatFloat(*p, 'f', -1, 64)
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
