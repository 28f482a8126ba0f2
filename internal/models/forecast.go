package models

import "github.com/shopspring/decimal"

// ForecastCell is one (line item, month) aggregation result for one project.
// Cells are created fresh by every aggregation call and never mutated in
// place by later stages; ApplyActuals and similar passes return new cells.
type ForecastCell struct {
	ProjectID   string          `json:"projectId" yaml:"projectId" csv:"project_id"`
	RubroID     string          `json:"rubroId" yaml:"rubroId" csv:"rubro_id"`
	LineItemID  string          `json:"line_item_id" yaml:"line_item_id" csv:"line_item_id"`
	Month       int             `json:"month" yaml:"month" csv:"month"`
	Description string          `json:"description" yaml:"description" csv:"description"`
	Category    string          `json:"category" yaml:"category" csv:"category"`
	Planned     decimal.Decimal `json:"planned" yaml:"planned" csv:"planned"`
	Forecast    decimal.Decimal `json:"forecast" yaml:"forecast" csv:"forecast"`
	Actual      decimal.Decimal `json:"actual" yaml:"actual" csv:"actual"`
	Variance    decimal.Decimal `json:"variance" yaml:"variance" csv:"variance"`
}

// MonthlyKey identifies one (rubro, month) bucket. RubroKey holds the
// canonical normalized rubro key so allocation and payroll spellings of the
// same line item land in the same bucket.
type MonthlyKey struct {
	RubroKey string
	Month    int
}

// ActualAmounts maps (rubro, month) buckets to reconciled payroll actuals.
type ActualAmounts map[MonthlyKey]decimal.Decimal
