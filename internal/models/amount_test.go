package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain integer", input: "500", expected: "500"},
		{name: "plain decimal", input: "1234.56", expected: "1234.56"},
		{name: "thousands comma", input: "1,234.56", expected: "1234.56"},
		{name: "thousands comma no decimals", input: "1,234", expected: "1234"},
		{name: "decimal comma", input: "1234,56", expected: "1234.56"},
		{name: "european thousands and decimal comma", input: "1.234,56", expected: "1234.56"},
		{name: "currency suffix", input: "500 USD", expected: "500"},
		{name: "currency symbol", input: "$1,100.00", expected: "1100"},
		{name: "negative", input: "-42.5", expected: "-42.5"},
		{name: "empty", input: "", expected: "0"},
		{name: "garbage", input: "n/a", expected: "0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expected, err := decimal.NewFromString(tc.expected)
			require.NoError(t, err)
			assert.True(t, expected.Equal(ParseAmount(tc.input)),
				"ParseAmount(%q) = %s, want %s", tc.input, ParseAmount(tc.input), expected)
		})
	}
}

func TestParseMonthValue(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int
		ok       bool
	}{
		{name: "plain integer", input: "6", expected: 6, ok: true},
		{name: "calendar month", input: "2025-06", expected: 6, ok: true},
		{name: "calendar month single digit", input: "2025-6", expected: 6, ok: true},
		{name: "december", input: "2024-12", expected: 12, ok: true},
		{name: "float month", input: "6.0", expected: 6, ok: true},
		{name: "zero", input: "0", expected: 0, ok: true},
		{name: "negative", input: "-3", expected: -3, ok: true},
		{name: "large index", input: "37", expected: 37, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "full date", input: "2025-06-15", ok: false},
		{name: "text", input: "june", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			month, ok := ParseMonthValue(tc.input)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.expected, month)
			}
		})
	}
}

func TestFlexStringAcceptsNumbersAndStrings(t *testing.T) {
	var doc struct {
		Month FlexString `json:"month"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"month": 6}`), &doc))
	assert.Equal(t, "6", doc.Month.String())

	require.NoError(t, json.Unmarshal([]byte(`{"month": "2025-06"}`), &doc))
	assert.Equal(t, "2025-06", doc.Month.String())

	require.NoError(t, json.Unmarshal([]byte(`{"month": null}`), &doc))
	assert.Equal(t, "", doc.Month.String())
}

func TestFlexDecimalToleratesDirtyInput(t *testing.T) {
	var doc struct {
		Amount FlexDecimal `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 500.25}`), &doc))
	assert.True(t, decimal.NewFromFloat(500.25).Equal(doc.Amount.Decimal))

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "1,100.00 USD"}`), &doc))
	assert.True(t, decimal.NewFromInt(1100).Equal(doc.Amount.Decimal))

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "not a number"}`), &doc))
	assert.True(t, doc.Amount.Decimal.IsZero())
}

func TestRubroReferenceFieldPrecedence(t *testing.T) {
	ref := RubroReference{
		LineItemID:  "MOD-LEAD",
		ID:          "legacy-id",
		Description: "Ingeniero Lider",
		Name:        "lead",
	}

	assert.Equal(t, "MOD-LEAD", ref.PrimaryID())
	assert.Equal(t, "Ingeniero Lider", ref.PrimaryDescription())
	assert.Equal(t, []string{"MOD-LEAD", "legacy-id"}, ref.IDFields())
	assert.False(t, ref.IsEmpty())
	assert.True(t, RubroReference{}.IsEmpty())
}
