package models

// RubroReference is any record that names a cost line item, regardless of
// which source produced it (allocation, payroll actual, rubro catalog entry
// or baseline estimate). All fields are optional; the persistence layer is
// not consistent about which variant it populates, and resolution inspects
// fields by presence only. References are ephemeral value objects and are
// never mutated.
type RubroReference struct {
	RubroID      string `json:"rubroId,omitempty" yaml:"rubroId,omitempty"`
	RubroIDSnake string `json:"rubro_id,omitempty" yaml:"rubro_id,omitempty"`
	LineItemID   string `json:"line_item_id,omitempty" yaml:"line_item_id,omitempty"`
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Descripcion string `json:"descripcion,omitempty" yaml:"descripcion,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	LineaGasto  string `json:"linea_gasto,omitempty" yaml:"linea_gasto,omitempty"`
}

// IDFields returns the populated id-like fields in resolution precedence
// order. Id fields are checked before description fields because codes are
// far less ambiguous than human labels.
func (r RubroReference) IDFields() []string {
	return nonEmpty(r.RubroID, r.RubroIDSnake, r.LineItemID, r.ID)
}

// DescriptionFields returns the populated description-like fields in
// resolution precedence order.
func (r RubroReference) DescriptionFields() []string {
	return nonEmpty(r.Description, r.Descripcion, r.Name, r.LineaGasto)
}

// PrimaryID returns the first populated id-like field, or "".
func (r RubroReference) PrimaryID() string {
	if ids := r.IDFields(); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// PrimaryDescription returns the first populated description-like field, or "".
func (r RubroReference) PrimaryDescription() string {
	if descs := r.DescriptionFields(); len(descs) > 0 {
		return descs[0]
	}
	return ""
}

// IsEmpty reports whether the reference carries no identifying data at all.
func (r RubroReference) IsEmpty() bool {
	return len(r.IDFields()) == 0 && len(r.DescriptionFields()) == 0
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
