package models

// Canonical category labels.
const (
	// CategoryLabor is the canonical direct-labor category ("Mano de Obra
	// Directa"). Classification and the synthetic resolver fallback always
	// emit this exact label.
	CategoryLabor = "Mano de Obra (MOD)"

	// CategoryAllocations is the generic fallback category for forecast
	// cells whose rubro could not be matched to the catalog or taxonomy.
	CategoryAllocations = "Allocations"
)

// RubroCodeLabor is the bare category code for direct labor. Synthetic labor
// entries produced by the resolver fallback carry it as their rubro id.
const RubroCodeLabor = "MOD"
