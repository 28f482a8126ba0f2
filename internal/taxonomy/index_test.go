package taxonomy

import (
	"testing"

	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndexSeedsCanonicalLaborKeys(t *testing.T) {
	idx := BuildIndex(nil)

	for _, key := range []string{
		"mod-ext", "mod-ot", "mod-ing", "mod-lead", "mod-cont", "mod-sdm",
		"mod-eng-1", "mod-eng-2", "mod-eng-3", "mod",
		"project-manager", "service-delivery-manager", "ingeniero-lider",
	} {
		entry, ok := idx.Get(key)
		require.True(t, ok, "canonical labor key %q must be seeded", key)
		assert.True(t, entry.IsLabor)
		assert.Equal(t, models.CategoryLabor, entry.Category)
	}
}

func TestBuildIndexRegistersAllAliasFields(t *testing.T) {
	raw := map[string]models.TaxonomyEntry{
		"LINEA#SW-LICENSE": {
			RubroID:     "SW-LICENSE",
			LineItemID:  "sw_license",
			Name:        "Software License",
			LineaGasto:  "Licenciamiento",
			Descripcion: "Licencias de software",
			Description: "Software licensing",
			Category:    "Software",
		},
	}

	idx := BuildIndex(raw)

	canonical, ok := idx.Get("sw-license")
	require.True(t, ok)

	// Every alias resolves to the same entry instance.
	for _, alias := range []string{
		"linea#SW-LICENSE", "sw_license", "Software License",
		"Licenciamiento", "Licencias de software", "Software licensing", "Software",
	} {
		entry, ok := idx.Get(keyutils.NormalizeKey(alias))
		require.True(t, ok, "alias %q must be registered", alias)
		assert.Same(t, canonical, entry)
	}
}

func TestBuildIndexRealEntryOverridesSyntheticSeed(t *testing.T) {
	raw := map[string]models.TaxonomyEntry{
		"MOD-EXT": {
			RubroID:     "MOD-EXT",
			Description: "External tooling subscription",
			Category:    "Herramientas",
			IsLabor:     false,
		},
	}

	idx := BuildIndex(raw)

	entry, ok := idx.Get("mod-ext")
	require.True(t, ok)
	assert.Equal(t, "External tooling subscription", entry.Description)
	assert.False(t, entry.IsLabor, "real catalog data must win over the synthetic seed")

	// Other seeded keys are untouched.
	other, ok := idx.Get("mod-sdm")
	require.True(t, ok)
	assert.True(t, other.IsLabor)
}

func TestBuildIndexSkipsMalformedAliasesSilently(t *testing.T) {
	raw := map[string]models.TaxonomyEntry{
		"HW-SERVER": {RubroID: "HW-SERVER", Description: "Servidores"},
		"##!!":      {Description: "entry with an unusable map key"},
	}

	idx := BuildIndex(raw)

	_, ok := idx.Get("hw-server")
	assert.True(t, ok)
	// The malformed key itself normalizes to "" and is not registered, but
	// the entry remains reachable through its description alias.
	entry, ok := idx.Get("entry-with-an-unusable-map-key")
	require.True(t, ok)
	assert.Equal(t, "entry with an unusable map key", entry.Description)
}

func TestBuildIndexDeterministic(t *testing.T) {
	raw := map[string]models.TaxonomyEntry{
		"A-1": {RubroID: "A-1", Description: "shared label"},
		"A-2": {RubroID: "A-2", Description: "shared label"},
		"B-1": {RubroID: "B-1", Description: "Otros"},
	}

	first := BuildIndex(raw)
	second := BuildIndex(raw)

	require.Equal(t, first.Keys(), second.Keys())
	for _, key := range first.Keys() {
		a, _ := first.Get(key)
		b, _ := second.Get(key)
		assert.Equal(t, a.RubroID, b.RubroID, "key %q must resolve identically across builds", key)
	}

	// Colliding alias "shared label": registration happens in sorted raw-key
	// order, so the later entry (A-2) wins on every build.
	entry, ok := first.Get("shared-label")
	require.True(t, ok)
	assert.Equal(t, "A-2", entry.RubroID)
}

func TestSyntheticLaborEntryPreservesReferenceDescription(t *testing.T) {
	entry := SyntheticLaborEntry(models.RubroReference{Description: "Ing. de soporte on-site"})
	assert.Equal(t, models.RubroCodeLabor, entry.RubroID)
	assert.Equal(t, models.CategoryLabor, entry.Category)
	assert.True(t, entry.IsLabor)
	assert.Equal(t, "Ing. de soporte on-site", entry.Description)

	fallback := SyntheticLaborEntry(models.RubroReference{RubroID: "MOD-OT"})
	assert.Equal(t, "Mano de Obra Directa", fallback.Description)
}

func TestIsCanonicalLaborKey(t *testing.T) {
	assert.True(t, IsCanonicalLaborKey("mod-lead"))
	assert.True(t, IsCanonicalLaborKey("service-delivery-manager"))
	assert.False(t, IsCanonicalLaborKey("sw-license"))
	assert.False(t, IsCanonicalLaborKey(""))
}
