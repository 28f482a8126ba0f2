package keyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "already normalized", input: "mod-lead", expected: "mod-lead"},
		{name: "uppercase code", input: "MOD-LEAD", expected: "mod-lead"},
		{name: "underscore separator", input: "MOD_LEAD", expected: "mod-lead"},
		{name: "space separator", input: "Mod Lead", expected: "mod-lead"},
		{name: "lowercase with space", input: "mod lead", expected: "mod-lead"},
		{name: "linea hash prefix", input: "LINEA#MOD-EXT", expected: "mod-ext"},
		{name: "categoria hash prefix", input: "CATEGORIA#Mano de Obra", expected: "mano-de-obra"},
		{name: "mixed case prefix", input: "Linea#mod-ot", expected: "mod-ot"},
		{name: "parenthesized category", input: "Mano de Obra (MOD)", expected: "mano-de-obra-mod"},
		{name: "surrounding whitespace", input: "  MOD-SDM  ", expected: "mod-sdm"},
		{name: "repeated separators", input: "MOD -- LEAD", expected: "mod-lead"},
		{name: "only punctuation", input: "##!!", expected: ""},
		{name: "accents collapse", input: "Ingeniero Líder", expected: "ingeniero-l-der"},
		{name: "numeric suffix", input: "MOD ENG 2", expected: "mod-eng-2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeKey(tc.input))
		})
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	inputs := []string{
		"", "MOD-LEAD", "LINEA#MOD-EXT", "Mano de Obra (MOD)",
		"Service Delivery Manager", "  weird__input!! ", "LINEA#LINEA#X",
	}

	for _, input := range inputs {
		once := NormalizeKey(input)
		assert.Equal(t, once, NormalizeKey(once), "NormalizeKey must be idempotent for %q", input)
	}
}

func TestNormalizeKeyEquivalenceClasses(t *testing.T) {
	variants := []string{"MOD-LEAD", "MOD_LEAD", "Mod Lead", "mod lead", "LINEA#MOD-LEAD"}

	expected := NormalizeKey(variants[0])
	for _, v := range variants[1:] {
		assert.Equal(t, expected, NormalizeKey(v), "%q should normalize like %q", v, variants[0])
	}
}
