package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyNoisePattern = regexp.MustCompile(`(?i)(usd|cop|eur|chf|[$€\s'])`)
	decimalCommaPattern  = regexp.MustCompile(`,\d{1,2}$`)
	calendarMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
)

// ParseAmount converts an amount string from the persistence layer into a
// decimal. It tolerates currency codes, thousands separators and a trailing
// decimal comma. Unparseable input yields zero rather than an error; dirty
// upstream amounts must never abort an aggregation run.
func ParseAmount(amountStr string) decimal.Decimal {
	amount := strings.TrimSpace(amountStr)
	if amount == "" {
		return decimal.Zero
	}

	amount = currencyNoisePattern.ReplaceAllString(amount, "")

	// A trailing comma followed by one or two digits is a decimal comma
	// ("1.234,56", "1234,56"); any other comma is a thousands separator
	// ("1,234.56", "1,234").
	if decimalCommaPattern.MatchString(amount) {
		amount = strings.ReplaceAll(amount, ".", "")
		amount = strings.Replace(amount, ",", ".", 1)
	} else {
		amount = strings.ReplaceAll(amount, ",", "")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero
	}
	return dec
}

// ParseMonthValue interprets a raw month value in any of the shapes the
// persistence layer produces: a plain integer, a numeric string, or a
// "YYYY-MM" calendar month key (from which the month component is taken).
// The boolean reports whether a month could be extracted at all; range
// validation against the planning horizon is the caller's concern.
func ParseMonthValue(raw string) (int, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}

	if m := calendarMonthPattern.FindStringSubmatch(value); m != nil {
		month, err := strconv.Atoi(m[2])
		if err != nil {
			return 0, false
		}
		return month, true
	}

	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}

	// Some exports serialize month indexes as floats ("6.0").
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}

	return 0, false
}

// FlexString is a string that also accepts raw JSON numbers, preserving their
// textual form. The persistence layer is inconsistent about quoting month and
// id values, so decoding must not depend on the JSON type.
type FlexString string

// UnmarshalJSON never fails: malformed values decode to the empty string.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*f = ""
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(s)
		return nil
	}

	*f = FlexString(raw)
	return nil
}

// String returns the textual form of the value.
func (f FlexString) String() string {
	return string(f)
}

// FlexDecimal is a decimal amount tolerant of the numeric shapes the
// persistence layer produces: JSON numbers, numeric strings, and strings with
// currency or separator noise. Unparseable input decodes to zero.
type FlexDecimal struct {
	decimal.Decimal
}

// NewFlexDecimal wraps a decimal for use in record literals.
func NewFlexDecimal(d decimal.Decimal) FlexDecimal {
	return FlexDecimal{Decimal: d}
}

// UnmarshalJSON never fails: malformed values decode to zero.
func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		f.Decimal = decimal.Zero
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			f.Decimal = decimal.Zero
			return nil
		}
		f.Decimal = ParseAmount(s)
		return nil
	}

	f.Decimal = ParseAmount(raw)
	return nil
}
