// Package keyutils provides string normalization utilities shared by the
// taxonomy index, the tolerant resolver and the category classifier.
package keyutils

import (
	"regexp"
	"strings"
)

var (
	// Legacy persistence keys arrive with a hash-style prefix, e.g.
	// "LINEA#MOD-LEAD" or "CATEGORIA#Mano de Obra".
	hashPrefixPattern = regexp.MustCompile(`(?i)^(linea|categoria)#`)

	// Any run of characters outside [a-z0-9-] collapses to a single hyphen.
	nonKeyPattern = regexp.MustCompile(`[^a-z0-9-]+`)
)

// NormalizeKey converts an arbitrary rubro identifier, description or category
// label into its canonical lookup form: lowercase, hash-style prefixes
// stripped, every run of non-alphanumeric characters collapsed to a single
// hyphen, and leading/trailing hyphens trimmed.
//
// The function is total and idempotent: any input normalizes to some string
// (worst case ""), and NormalizeKey(NormalizeKey(s)) == NormalizeKey(s).
// Whitespace, underscore and hyphen variants of the same token normalize
// identically, so "MOD LEAD", "MOD_LEAD" and "mod-lead" all yield "mod-lead".
func NormalizeKey(input string) string {
	if input == "" {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(input))
	key = hashPrefixPattern.ReplaceAllString(key, "")
	key = nonKeyPattern.ReplaceAllString(key, "-")
	return strings.Trim(key, "-")
}
