// Package payroll reconciles payroll actuals against the rubro taxonomy,
// producing per-rubro, per-month actual amounts that the forecast engine
// folds into its cells.
package payroll

import (
	"github.com/CVDExInfo/finplan/internal/keyutils"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
	"github.com/CVDExInfo/finplan/internal/taxonomy"
)

// Row is one payroll actual as exported by the payroll system. Months arrive
// in the same inconsistent shapes as allocations; amounts arrive as strings
// with separator and currency noise.
type Row struct {
	ProjectID   string `csv:"project_id" json:"project_id,omitempty"`
	RubroID     string `csv:"rubro_id" json:"rubro_id,omitempty"`
	Role        string `csv:"role" json:"role,omitempty"`
	Description string `csv:"description" json:"description,omitempty"`
	Month       string `csv:"month" json:"month,omitempty"`
	Amount      string `csv:"amount" json:"amount,omitempty"`
}

// reference builds the rubro reference a payroll row identifies itself by.
// The role doubles as a description so the alias table can resolve rows that
// carry only a human role name.
func (r Row) reference() models.RubroReference {
	return models.RubroReference{
		RubroIDSnake: r.RubroID,
		Description:  r.Description,
		Name:         r.Role,
	}
}

// Reconciler resolves payroll rows through the tolerant resolver and buckets
// their amounts by canonical rubro key and month.
type Reconciler struct {
	resolver *taxonomy.Resolver
	logger   logging.Logger
}

// NewReconciler creates a Reconciler over the given taxonomy index.
func NewReconciler(index *taxonomy.Index, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Reconciler{resolver: taxonomy.NewResolver(index, logger), logger: logger}
}

// BuildActuals aggregates payroll rows into (rubro, month) actual amounts.
// Rows whose month cannot be parsed or falls outside [1, horizon], and rows
// with no rubro identity at all, are skipped; payroll exports routinely
// include out-of-window catch-up lines and they must not poison the batch.
// Rows that resolve to a taxonomy entry are bucketed under the entry's
// canonical rubro id; unresolvable rows fall back to their own normalized
// key so they can still meet a like-spelled forecast cell.
func (r *Reconciler) BuildActuals(rows []Row, horizon int) models.ActualAmounts {
	actuals := make(models.ActualAmounts, len(rows))
	cache := taxonomy.NewCache()
	skipped := 0

	for _, row := range rows {
		month, ok := models.ParseMonthValue(row.Month)
		if !ok || month < 1 || month > horizon {
			skipped++
			continue
		}

		ref := row.reference()
		key := r.canonicalKey(ref, cache)
		if key == "" {
			skipped++
			continue
		}

		bucket := models.MonthlyKey{RubroKey: key, Month: month}
		actuals[bucket] = actuals[bucket].Add(models.ParseAmount(row.Amount))
	}

	if skipped > 0 {
		r.logger.WithField(logging.FieldCount, skipped).Debug("Skipped unreconcilable payroll rows")
	}

	return actuals
}

func (r *Reconciler) canonicalKey(ref models.RubroReference, cache *taxonomy.Cache) string {
	if entry := r.resolver.Lookup(ref, cache); entry != nil && entry.RubroID != "" {
		return keyutils.NormalizeKey(entry.RubroID)
	}
	if id := ref.PrimaryID(); id != "" {
		return keyutils.NormalizeKey(id)
	}
	return keyutils.NormalizeKey(ref.PrimaryDescription())
}
