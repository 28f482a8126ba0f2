// Package root contains the root command for the application
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/CVDExInfo/finplan/internal/config"
	"github.com/CVDExInfo/finplan/internal/forecast"
	"github.com/CVDExInfo/finplan/internal/report"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	TaxonomyFile string
	AliasesFile  string
	Output       string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finplan",
		Short: "A CLI tool to reconcile cost line items and aggregate per-rubro forecasts.",
		Long: `finplan resolves inconsistently spelled rubro references against a canonical
taxonomy and aggregates allocations into per-rubro, per-month forecast cells.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finplan!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Warnf("Invalid configuration, using defaults: %v", err)
				return
			}
			AppConfig = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			// Flags win over config file values.
			if SharedFlags.TaxonomyFile == "" {
				SharedFlags.TaxonomyFile = cfg.Data.TaxonomyFile
			}
			if SharedFlags.AliasesFile == "" {
				SharedFlags.AliasesFile = cfg.Data.AliasesFile
			}
			if !cmd.Flags().Changed("horizon") {
				Horizon = cfg.Forecast.Horizon
			}
			report.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}

	// AppConfig is the resolved application configuration, nil when invalid
	AppConfig *config.Config

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Specific forecast command flags
	AllocationsFile string
	CatalogFile     string
	PayrollFile     string
	ProjectID       string
	Horizon         int
	SummaryOnly     bool

	// Specific classify command flags
	LineItemsFile string

	// Specific resolve command flags
	RubroID     string
	Description string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.TaxonomyFile, "taxonomy", "t", "", "Taxonomy snapshot file (YAML)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.AliasesFile, "aliases", "a", "", "Alias mappings file (YAML)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")

	Horizon = forecast.DefaultHorizon
}
