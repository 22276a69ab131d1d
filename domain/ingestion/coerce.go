package ingestion

import (
	"math"
	"strconv"
	"strings"
)

// NumericOutcome classifies the result of a numeric coercion attempt.
type NumericOutcome int

const (
	// NumericParsed means the cell produced a valid number.
	NumericParsed NumericOutcome = iota
	// NumericEmpty means the cell was empty or whitespace; null, not a failure.
	NumericEmpty
	// NumericFailed means the cell held text that is not a number; null,
	// counted as a parse failure.
	NumericFailed
)

// ParseNumeric coerces a raw cell into a float64. Monetary amounts arrive in
// units of 万 (10,000 yuan); cells carrying an explicit 亿 suffix are scaled
// to 万. Thousands separators, percent signs and surrounding whitespace are
// stripped. A bare "-" is how the source sheets render an absent amount.
// ParseNumeric never panics; any unexpected input degrades to NumericFailed.
func ParseNumeric(raw string) (float64, NumericOutcome) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, NumericEmpty
	}

	scale := 1.0
	switch {
	case strings.Contains(cleaned, "亿"):
		cleaned = strings.Replace(cleaned, "亿", "", 1)
		scale = 10000 // 1亿 = 10000万
	case strings.Contains(cleaned, "万"):
		cleaned = strings.Replace(cleaned, "万", "", 1)
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "%", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" || cleaned == "-" {
		return 0, NumericEmpty
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, NumericFailed
	}
	return val * scale, NumericParsed
}

// CoerceNumeric wraps ParseNumeric into a typed Value, reporting whether the
// cell counts as a parse failure.
func CoerceNumeric(raw string) (Value, bool) {
	val, outcome := ParseNumeric(raw)
	switch outcome {
	case NumericParsed:
		return NewNumericValue(val), false
	case NumericFailed:
		return NewNullValue(), true
	default:
		return NewNullValue(), false
	}
}

// CoerceText produces a trimmed text Value; blank cells become null.
func CoerceText(raw string) Value {
	return NewTextValue(strings.TrimSpace(raw))
}
