// Package classifier decides whether cost line items are direct labor and
// repairs line-item records whose upstream categorization is wrong or
// missing. Both entry points are total and side-effect-free: they run inline
// with rendering and must never fail on dirty data.
package classifier

import (
	"strings"

	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/models"
)

// Normalized category forms that read as direct labor.
var laborCategoryKeys = map[string]struct{}{
	"labor":                {},
	"mod":                  {},
	"mano-de-obra-directa": {},
}

// Normalized role forms that read as direct labor. Checked only when the
// record carries no category at all.
var laborRoleKeys = map[string]struct{}{
	"project-manager":          {},
	"service-delivery-manager": {},
	"ingeniero-lider":          {},
	"ingeniero-de-soporte":     {},
	"soporte-experto":          {},
	"soporte-nivel-1":          {},
	"soporte-nivel-2":          {},
	"soporte-nivel-3":          {},
}

// IsLabor reports whether a (category, role) pair describes direct labor.
//
// The category is authoritative when present and non-empty: it is tested
// against the labor pattern set, and a leading "non"/"no" prefix excludes it
// even when the rest of the string would match ("Non-Labor" is not labor).
// Only when the category is empty does the role fall back to the labor role
// name set.
func IsLabor(category, role string) bool {
	if strings.TrimSpace(category) != "" {
		return categoryIsLabor(category)
	}
	return roleIsLabor(role)
}

func categoryIsLabor(category string) bool {
	key := keyutils.NormalizeKey(category)
	if key == "" {
		return false
	}

	if strings.HasPrefix(key, "non-") || strings.HasPrefix(key, "no-") {
		return false
	}

	if _, ok := laborCategoryKeys[key]; ok {
		return true
	}

	// Whole-word containment: "Mano de Obra (MOD)" and "Direct Labor Cost"
	// both read as labor, "collaboration" does not.
	return containsToken(key, "labor") || strings.Contains(key, "mano-de-obra")
}

func roleIsLabor(role string) bool {
	key := keyutils.NormalizeKey(role)
	if key == "" {
		return false
	}

	if _, ok := laborRoleKeys[key]; ok {
		return true
	}

	// Generic engineer roles count as labor regardless of qualifier.
	if strings.Contains(key, "ingeniero") {
		return true
	}

	for name := range laborRoleKeys {
		if strings.Contains(key, name) {
			return true
		}
	}

	// Bare abbreviations match whole tokens only, so "pm" matches a role of
	// "PM" or "Senior PM" but not "pmo" or "rpm".
	return containsToken(key, "pm") || containsToken(key, "sdm")
}

// containsToken reports whether the normalized key has the given token as a
// complete hyphen-delimited word.
func containsToken(key, token string) bool {
	for _, part := range strings.Split(key, "-") {
		if part == token {
			return true
		}
	}
	return false
}

// EnsureCategory repairs a line item whose category disagrees with its role.
// The candidate role is taken from Role, then Subtype, then Description,
// using only the first field that matches a labor role pattern. When a labor
// role is detected and the current category does not already read as labor,
// a corrected copy with the canonical labor category is returned; this
// intentionally overrides a wrong non-labor category. In every other case
// the input pointer is returned unchanged, so repeated application is
// idempotent.
func EnsureCategory(item *models.LineItem) *models.LineItem {
	if item == nil {
		return nil
	}

	if laborRoleCandidate(item) == "" {
		return item
	}

	if IsLabor(item.Category, "") {
		return item
	}

	fixed := *item
	fixed.Category = models.CategoryLabor
	return &fixed
}

// EnsureCategories applies EnsureCategory to a batch, returning the repaired
// slice and the number of items that were corrected.
func EnsureCategories(items []*models.LineItem) ([]*models.LineItem, int) {
	corrected := 0
	out := make([]*models.LineItem, len(items))
	for i, item := range items {
		out[i] = EnsureCategory(item)
		if out[i] != item {
			corrected++
		}
	}
	return out, corrected
}

func laborRoleCandidate(item *models.LineItem) string {
	for _, candidate := range []string{item.Role, item.Subtype, item.Description} {
		if candidate != "" && roleIsLabor(candidate) {
			return candidate
		}
	}
	return ""
}
