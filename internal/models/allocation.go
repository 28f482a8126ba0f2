package models

// Allocation is a planned monetary amount for one rubro in one month of one
// project, as loaded from the persistence layer. The month can arrive in any
// of several field shapes; forecast.MonthOf collapses them to a canonical
// 1..N index. Like all source records it is treated as an immutable value.
type Allocation struct {
	RubroReference `yaml:",inline"`

	ProjectID      string `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	ProjectIDSnake string `json:"project_id,omitempty" yaml:"project_id,omitempty"`

	// Month variants, in parse precedence order.
	MonthIndex       *int       `json:"month_index,omitempty" yaml:"month_index,omitempty"`
	MonthIndexCamel  *int       `json:"monthIndex,omitempty" yaml:"monthIndex,omitempty"`
	CalendarMonth    string     `json:"calendar_month,omitempty" yaml:"calendar_month,omitempty"`
	CalendarMonthKey string     `json:"calendarMonthKey,omitempty" yaml:"calendarMonthKey,omitempty"`
	Month            FlexString `json:"month,omitempty" yaml:"month,omitempty"`

	// Amount drives both planned and forecast unless the source
	// distinguishes them; Forecast and Actual are nil when absent.
	Amount   FlexDecimal  `json:"amount,omitempty" yaml:"amount,omitempty"`
	Forecast *FlexDecimal `json:"forecast,omitempty" yaml:"forecast,omitempty"`
	Actual   *FlexDecimal `json:"actual,omitempty" yaml:"actual,omitempty"`
}

// Project returns the first populated project id variant, or "".
func (a Allocation) Project() string {
	if a.ProjectID != "" {
		return a.ProjectID
	}
	return a.ProjectIDSnake
}

// RubroCatalogEntry is one per-project rubro catalog record. Catalog entries
// supply the preferred description and category for forecast cells; the
// taxonomy is consulted only when the catalog is silent.
type RubroCatalogEntry struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	LineItemID  string `json:"line_item_id,omitempty" yaml:"line_item_id,omitempty"`
	RubroID     string `json:"rubroId,omitempty" yaml:"rubroId,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// LineItem is a displayable cost line record whose category may need repair.
// The classifier derives a candidate role from Role, then Subtype, then
// Description when deciding whether the item is direct labor.
type LineItem struct {
	LineItemID  string `json:"line_item_id,omitempty" yaml:"line_item_id,omitempty"`
	RubroID     string `json:"rubroId,omitempty" yaml:"rubroId,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Role        string `json:"role,omitempty" yaml:"role,omitempty"`
	Subtype     string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
}
