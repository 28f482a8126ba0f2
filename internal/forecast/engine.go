// Package forecast aggregates raw allocation records into canonical
// per-rubro, per-month forecast cells. It is the top-level entry point of
// the resolution engine: everything it consumes is in-memory data already
// loaded by the caller, and it never performs I/O.
package forecast

import (
	"fmt"
	"sort"

	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
	"github.com/CVDExInfo/finplan/internal/taxonomy"

	"github.com/shopspring/decimal"
)

// Engine computes forecast cells for one project at a time. The taxonomy
// index it wraps is immutable, so a single Engine may serve concurrent
// aggregations; each ComputeFromAllocations call owns its own resolution
// cache.
type Engine struct {
	resolver *taxonomy.Resolver
	logger   logging.Logger
}

// NewEngine creates an aggregation engine over the given taxonomy index.
func NewEngine(index *taxonomy.Index, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{
		resolver: taxonomy.NewResolver(index, logger),
		logger:   logger,
	}
}

// NewEngineWithResolver creates an engine around an already-configured
// resolver (e.g. one carrying alias-table overrides).
func NewEngineWithResolver(resolver *taxonomy.Resolver, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Engine{resolver: resolver, logger: logger}
}

// cellGroup accumulates one (rubro-as-referenced, month) bucket.
type cellGroup struct {
	cell models.ForecastCell
}

// ComputeFromAllocations reconciles a project's allocations against its rubro
// catalog and the taxonomy, and emits one ForecastCell per distinct
// (rubroId-as-referenced, month) pair.
//
// The effective project id is the explicit parameter, else the first
// allocation carrying one; with neither, the result is empty rather than a
// partial answer across unknown projects. Allocations whose month is
// missing or outside [1, horizon], or which carry no rubro identity at all,
// are silently dropped. The function never fails on malformed records and
// always returns a non-nil slice, sorted by rubro then month.
func (e *Engine) ComputeFromAllocations(
	allocations []models.Allocation,
	catalog []models.RubroCatalogEntry,
	horizon int,
	projectID string,
) []models.ForecastCell {
	cells := []models.ForecastCell{}

	pid := effectiveProjectID(projectID, allocations)
	if pid == "" {
		e.logger.Debug("No project id resolvable; skipping aggregation")
		return cells
	}

	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	cache := taxonomy.NewCache()
	groups := make(map[models.MonthlyKey]*cellGroup)
	skipped := 0

	for _, alloc := range allocations {
		month, ok := MonthOf(alloc, horizon)
		if !ok {
			skipped++
			continue
		}

		rubroID := alloc.PrimaryID()
		if rubroID == "" {
			rubroID = alloc.PrimaryDescription()
		}
		if rubroID == "" {
			skipped++
			continue
		}

		key := models.MonthlyKey{RubroKey: keyutils.NormalizeKey(rubroID), Month: month}
		group, ok := groups[key]
		if !ok {
			description, category := e.describe(alloc, rubroID, catalog, cache)
			group = &cellGroup{cell: models.ForecastCell{
				ProjectID:   pid,
				RubroID:     rubroID,
				LineItemID:  rubroID,
				Month:       month,
				Description: description,
				Category:    category,
				Planned:     decimal.Zero,
				Forecast:    decimal.Zero,
				Actual:      decimal.Zero,
			}}
			groups[key] = group
		}

		amount := alloc.Amount.Decimal
		group.cell.Planned = group.cell.Planned.Add(amount)
		if alloc.Forecast != nil {
			group.cell.Forecast = group.cell.Forecast.Add(alloc.Forecast.Decimal)
		} else {
			group.cell.Forecast = group.cell.Forecast.Add(amount)
		}
		if alloc.Actual != nil {
			group.cell.Actual = group.cell.Actual.Add(alloc.Actual.Decimal)
		}
	}

	for _, group := range groups {
		cell := group.cell
		cell.Variance = cell.Actual.Sub(cell.Planned)
		cells = append(cells, cell)
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].RubroID != cells[j].RubroID {
			return cells[i].RubroID < cells[j].RubroID
		}
		return cells[i].Month < cells[j].Month
	})

	if skipped > 0 {
		e.logger.WithFields(
			logging.Field{Key: logging.FieldProjectID, Value: pid},
			logging.Field{Key: logging.FieldCount, Value: skipped},
		).Debug("Dropped out-of-window or unidentifiable allocations")
	}

	return cells
}

// ApplyActuals folds reconciled payroll actuals into a cell set, returning
// new cells with Actual and Variance recomputed. Input cells are not
// mutated, and the actuals map is not consumed. Each bucket is applied to at
// most one cell, the first in cell order whose canonical key and month
// match; spelling variants of one rubro may produce several cells, and the
// same payroll money must not land in all of them. Actuals for buckets
// without a matching cell are ignored; the caller decides whether that
// warrants a banner.
func (e *Engine) ApplyActuals(cells []models.ForecastCell, actuals models.ActualAmounts) []models.ForecastCell {
	if len(actuals) == 0 {
		return cells
	}

	remaining := make(models.ActualAmounts, len(actuals))
	for key, amount := range actuals {
		remaining[key] = amount
	}

	cache := taxonomy.NewCache()
	out := make([]models.ForecastCell, len(cells))
	for i, cell := range cells {
		key := models.MonthlyKey{RubroKey: e.CanonicalKey(models.RubroReference{RubroID: cell.RubroID}, cache), Month: cell.Month}
		if actual, ok := remaining[key]; ok {
			cell.Actual = cell.Actual.Add(actual)
			cell.Variance = cell.Actual.Sub(cell.Planned)
			delete(remaining, key)
		}
		out[i] = cell
	}
	return out
}

// CanonicalKey returns the normalized grouping key for a reference: the
// resolved taxonomy entry's rubro id when the reference resolves, else the
// reference's own primary field. Allocation and payroll spellings of the
// same rubro therefore land in the same bucket.
func (e *Engine) CanonicalKey(ref models.RubroReference, cache *taxonomy.Cache) string {
	if entry := e.resolver.Lookup(ref, cache); entry != nil && entry.RubroID != "" {
		return keyutils.NormalizeKey(entry.RubroID)
	}
	if id := ref.PrimaryID(); id != "" {
		return keyutils.NormalizeKey(id)
	}
	return keyutils.NormalizeKey(ref.PrimaryDescription())
}

// describe resolves the display description and category for a cell: the
// catalog entry's own fields take precedence when present, then the
// taxonomy, then a generic fallback so no cell is ever emitted unlabeled.
func (e *Engine) describe(
	alloc models.Allocation,
	rubroID string,
	catalog []models.RubroCatalogEntry,
	cache *taxonomy.Cache,
) (string, string) {
	description := ""
	category := ""

	if entry := matchCatalog(catalog, rubroID); entry != nil {
		description = entry.Description
		category = entry.Category
	}

	if description == "" || category == "" {
		if entry := e.resolver.Lookup(alloc.RubroReference, cache); entry != nil {
			if description == "" {
				description = entry.BestDescription()
			}
			if category == "" {
				category = entry.BestCategory()
			}
		}
	}

	if description == "" {
		description = fmt.Sprintf("Allocation %s", rubroID)
	}
	if category == "" {
		category = models.CategoryAllocations
	}
	return description, category
}

// matchCatalog finds the catalog entry for a rubro reference key. Each id
// field is tried as a separate pass over the whole catalog (id, then
// line_item_id, then rubroId) so a weaker field never shadows a stronger
// one on a later entry. Comparison is by normalized key.
func matchCatalog(catalog []models.RubroCatalogEntry, rubroID string) *models.RubroCatalogEntry {
	key := keyutils.NormalizeKey(rubroID)
	if key == "" {
		return nil
	}

	for _, field := range []func(models.RubroCatalogEntry) string{
		func(e models.RubroCatalogEntry) string { return e.ID },
		func(e models.RubroCatalogEntry) string { return e.LineItemID },
		func(e models.RubroCatalogEntry) string { return e.RubroID },
	} {
		for i := range catalog {
			if keyutils.NormalizeKey(field(catalog[i])) == key {
				return &catalog[i]
			}
		}
	}
	return nil
}

func effectiveProjectID(explicit string, allocations []models.Allocation) string {
	if explicit != "" {
		return explicit
	}
	for _, alloc := range allocations {
		if pid := alloc.Project(); pid != "" {
			return pid
		}
	}
	return ""
}
