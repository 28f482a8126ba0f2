// Package forecast handles the forecast aggregation command
package forecast

import (
	"github.com/spf13/cobra"

	"github.com/CVDExInfo/finplan/cmd/root"
	"github.com/CVDExInfo/finplan/internal/forecast"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/payroll"
	"github.com/CVDExInfo/finplan/internal/report"
	"github.com/CVDExInfo/finplan/internal/store"
	"github.com/CVDExInfo/finplan/internal/taxonomy"
)

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Aggregate allocations into per-rubro, per-month forecast cells",
	Long: `Resolve every allocation's rubro reference against the taxonomy, group the
amounts by canonical rubro and month, and write the resulting forecast cells
to CSV. Payroll actuals can be folded in to recompute variances.`,
	Run: forecastFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.AllocationsFile, "allocations", "i", "", "Allocations file (JSON)")
	Cmd.Flags().StringVarP(&root.CatalogFile, "catalog", "c", "", "Rubro catalog file (JSON)")
	Cmd.Flags().StringVarP(&root.PayrollFile, "payroll", "p", "", "Payroll actuals file (CSV, optional)")
	Cmd.Flags().StringVar(&root.ProjectID, "project", "", "Project id (inferred from allocations when omitted)")
	Cmd.Flags().IntVar(&root.Horizon, "horizon", forecast.DefaultHorizon, "Planning horizon in months")
	Cmd.Flags().BoolVar(&root.SummaryOnly, "summary", false, "Log run totals instead of writing cells")
	if err := Cmd.MarkFlagRequired("allocations"); err != nil {
		root.Log.Fatalf("Failed to mark allocations flag required: %v", err)
	}
}

func forecastFunc(cmd *cobra.Command, args []string) {
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	s := store.NewSnapshotStore(root.SharedFlags.TaxonomyFile, root.SharedFlags.AliasesFile, logger)

	raw, err := s.LoadTaxonomy()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load taxonomy")
	}

	aliases, err := s.LoadAliases()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load alias mappings")
	}

	allocations, err := s.LoadAllocations(root.AllocationsFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load allocations")
	}

	catalog, err := s.LoadCatalog(root.CatalogFile)
	if err != nil && root.CatalogFile != "" {
		logger.WithError(err).Fatal("Failed to load rubro catalog")
	}

	index := taxonomy.BuildIndex(raw)
	engine := forecast.NewEngineWithResolver(taxonomy.NewResolverWithAliases(index, aliases, logger), logger)

	cells := engine.ComputeFromAllocations(allocations, catalog, root.Horizon, root.ProjectID)
	logger.WithField(logging.FieldCount, len(cells)).Info("Computed forecast cells")

	if root.PayrollFile != "" {
		rows, err := s.LoadPayroll(root.PayrollFile)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load payroll actuals")
		}

		actuals := payroll.NewReconciler(index, logger).BuildActuals(rows, root.Horizon)
		cells = engine.ApplyActuals(cells, actuals)
		logger.WithField(logging.FieldCount, len(actuals)).Info("Applied payroll actuals")
	}

	if root.SummaryOnly || root.SharedFlags.Output == "" {
		summary := report.Summarize(cells)
		logger.WithFields(
			logging.Field{Key: logging.FieldRunID, Value: summary.RunID},
			logging.Field{Key: logging.FieldProjectID, Value: summary.ProjectID},
			logging.Field{Key: logging.FieldCount, Value: summary.CellCount},
			logging.Field{Key: "total_planned", Value: summary.TotalPlanned.String()},
			logging.Field{Key: "total_forecast", Value: summary.TotalForecast.String()},
			logging.Field{Key: "total_variance", Value: summary.TotalVariance.String()},
			logging.Field{Key: "labor_share", Value: summary.LaborShare.String()},
		).Info("Forecast summary")
		return
	}

	if err := report.WriteCellsCSV(cells, root.SharedFlags.Output, logger); err != nil {
		logger.WithError(err).Fatal("Failed to write forecast cells")
	}
}
