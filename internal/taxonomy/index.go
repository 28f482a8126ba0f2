// Package taxonomy builds the canonical taxonomy index and resolves raw
// rubro references against it. The index is constructed once per taxonomy
// snapshot, is immutable afterward, and may be shared by concurrent
// resolution calls.
package taxonomy

import (
	"sort"

	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/models"
)

// laborSeed describes one canonical labor line item that must be resolvable
// even when the taxonomy catalog omits it.
type laborSeed struct {
	rubroID     string
	description string
}

// Canonical direct-labor line items seeded into every index.
var laborSeeds = []laborSeed{
	{rubroID: "MOD-EXT", description: "Ingeniero de Soporte Experto"},
	{rubroID: "MOD-OT", description: "Horas Extra"},
	{rubroID: "MOD-ING", description: "Ingeniero"},
	{rubroID: "MOD-LEAD", description: "Ingeniero Lider"},
	{rubroID: "MOD-CONT", description: "Contratista"},
	{rubroID: "MOD-SDM", description: "Service Delivery Manager"},
	{rubroID: "MOD-ENG-1", description: "Ingeniero de Soporte Nivel 1"},
	{rubroID: "MOD-ENG-2", description: "Ingeniero de Soporte Nivel 2"},
	{rubroID: "MOD-ENG-3", description: "Ingeniero de Soporte Nivel 3"},
	{rubroID: models.RubroCodeLabor, description: "Mano de Obra Directa"},
}

// Role titles and the category name seeded as additional keys for the
// corresponding labor codes.
var laborSeedAliases = map[string]string{
	"Project Manager":          "MOD-LEAD",
	"Ingeniero Lider":          "MOD-LEAD",
	"Service Delivery Manager": "MOD-SDM",
	models.CategoryLabor:       models.RubroCodeLabor,
}

// canonicalLaborKeys is the normalized form of every seeded labor key. The
// resolver's synthetic fallback consults it directly.
var canonicalLaborKeys = buildCanonicalLaborKeySet()

func buildCanonicalLaborKeySet() map[string]struct{} {
	keys := make(map[string]struct{}, len(laborSeeds)+len(laborSeedAliases))
	for _, seed := range laborSeeds {
		keys[keyutils.NormalizeKey(seed.rubroID)] = struct{}{}
		keys[keyutils.NormalizeKey(seed.description)] = struct{}{}
	}
	for alias := range laborSeedAliases {
		keys[keyutils.NormalizeKey(alias)] = struct{}{}
	}
	return keys
}

// IsCanonicalLaborKey reports whether the normalized key belongs to the
// seeded canonical labor key set.
func IsCanonicalLaborKey(key string) bool {
	_, ok := canonicalLaborKeys[key]
	return ok
}

// Index maps normalized keys to taxonomy entries. It is read-only after
// BuildIndex returns; keys are kept sorted so tolerant substring matching is
// deterministic.
type Index struct {
	entries map[string]*models.TaxonomyEntry
	keys    []string
}

// BuildIndex constructs the canonical taxonomy index from a raw taxonomy
// snapshot. Canonical labor keys are seeded first, then every raw entry is
// registered under the normalized forms of its map key and all alternate-key
// fields; the last writer wins, so a real taxonomy entry always overrides a
// synthetic labor placeholder for the same key. Malformed entries are not an
// error; aliases that normalize to "" are simply not registered. Given the
// same input map the resulting index is structurally identical on every call.
func BuildIndex(raw map[string]models.TaxonomyEntry) *Index {
	idx := &Index{entries: make(map[string]*models.TaxonomyEntry, 2*len(raw)+len(canonicalLaborKeys))}

	idx.seedLaborEntries()

	// Map iteration order is randomized; register raw entries in sorted key
	// order so collisions between entries resolve the same way every build.
	rawKeys := make([]string, 0, len(raw))
	for key := range raw {
		rawKeys = append(rawKeys, key)
	}
	sort.Strings(rawKeys)

	for _, rawKey := range rawKeys {
		entry := raw[rawKey]
		idx.register(rawKey, &entry)
		for _, alias := range entry.AliasFields() {
			idx.register(alias, &entry)
		}
	}

	idx.keys = make([]string, 0, len(idx.entries))
	for key := range idx.entries {
		idx.keys = append(idx.keys, key)
	}
	sort.Strings(idx.keys)

	return idx
}

func (ix *Index) seedLaborEntries() {
	byCode := make(map[string]*models.TaxonomyEntry, len(laborSeeds))
	for _, seed := range laborSeeds {
		entry := &models.TaxonomyEntry{
			RubroID:     seed.rubroID,
			Description: seed.description,
			Category:    models.CategoryLabor,
			IsLabor:     true,
		}
		byCode[seed.rubroID] = entry
		ix.register(seed.rubroID, entry)
		ix.register(seed.description, entry)
	}
	for alias, code := range laborSeedAliases {
		ix.register(alias, byCode[code])
	}
}

func (ix *Index) register(rawKey string, entry *models.TaxonomyEntry) {
	key := keyutils.NormalizeKey(rawKey)
	if key == "" {
		return
	}
	ix.entries[key] = entry
}

// Get returns the entry registered under the given normalized key.
func (ix *Index) Get(key string) (*models.TaxonomyEntry, bool) {
	entry, ok := ix.entries[key]
	return entry, ok
}

// Keys returns every registered normalized key in sorted order.
func (ix *Index) Keys() []string {
	return ix.keys
}

// Len returns the number of registered keys.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// SyntheticLaborEntry builds the resolver's canonical-labor fallback entry.
// The reference's own description is preserved when present so the original
// human label survives into forecast cells.
func SyntheticLaborEntry(ref models.RubroReference) *models.TaxonomyEntry {
	description := ref.PrimaryDescription()
	if description == "" {
		description = "Mano de Obra Directa"
	}
	return &models.TaxonomyEntry{
		RubroID:     models.RubroCodeLabor,
		Description: description,
		Category:    models.CategoryLabor,
		IsLabor:     true,
	}
}
