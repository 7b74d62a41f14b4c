// Package phone normalizes raw phone number text into canonical digit strings.
package phone

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

const (
	domesticLength = 11
	trunkPrefix    = '8'
	countryCode    = '7'
)

// Normalize turns raw phone input into a digit-only string. JSON numbers and
// strings are both accepted. An 11-digit number with the domestic trunk
// prefix is rewritten to the country code. Unusable input yields "".
func Normalize(raw any) string {
	s := toString(raw)
	if s == "" {
		return ""
	}

	// Full-width digits (common in pasted numbers) fold to ASCII.
	s = width.Fold.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == domesticLength && digits[0] == trunkPrefix {
		digits = string(countryCode) + digits[1:]
	}
	return digits
}

// Format renders a normalized number in international display form.
func Format(digits string) string {
	if digits == "" {
		return ""
	}
	return "+" + digits
}

func toString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
