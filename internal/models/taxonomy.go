package models

// TaxonomyEntry is canonical knowledge about one cost line, constructed once
// from the static taxonomy catalog at index-build time and immutable
// thereafter. Multiple normalized keys may map to the same entry.
type TaxonomyEntry struct {
	RubroID     string `json:"rubroId,omitempty" yaml:"rubroId,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	IsLabor     bool   `json:"isLabor,omitempty" yaml:"isLabor,omitempty"`

	// Alternate-key spellings as produced by the persistence layer. Each
	// populated field is registered in the index as an alias for this entry.
	RubroIDSnake string `json:"rubro_id,omitempty" yaml:"rubro_id,omitempty"`
	LineItemID   string `json:"line_item_id,omitempty" yaml:"line_item_id,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	LineaGasto   string `json:"linea_gasto,omitempty" yaml:"linea_gasto,omitempty"`
	Descripcion  string `json:"descripcion,omitempty" yaml:"descripcion,omitempty"`
	Categoria    string `json:"categoria,omitempty" yaml:"categoria,omitempty"`
}

// AliasFields returns every field whose normalized form should resolve to
// this entry, in registration order. Empty fields are skipped by the index.
func (e TaxonomyEntry) AliasFields() []string {
	return []string{
		e.RubroID,
		e.RubroIDSnake,
		e.LineItemID,
		e.Name,
		e.LineaGasto,
		e.Descripcion,
		e.Description,
		e.Category,
		e.Categoria,
	}
}

// BestDescription returns the most specific human label the entry carries.
func (e TaxonomyEntry) BestDescription() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Descripcion != "" {
		return e.Descripcion
	}
	if e.Name != "" {
		return e.Name
	}
	return e.LineaGasto
}

// BestCategory returns the entry's category, preferring the English-keyed
// field over the legacy "categoria" spelling.
func (e TaxonomyEntry) BestCategory() string {
	if e.Category != "" {
		return e.Category
	}
	return e.Categoria
}
