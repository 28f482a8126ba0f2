// Package resolve handles the single-reference resolution command
package resolve

import (
	"github.com/spf13/cobra"

	"github.com/CVDExInfo/finplan/cmd/root"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
	"github.com/CVDExInfo/finplan/internal/store"
	"github.com/CVDExInfo/finplan/internal/taxonomy"
)

// Cmd represents the resolve command
var Cmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one rubro reference against the taxonomy",
	Long: `Resolve a single rubro reference, given by id or description, through the
tolerant resolution chain and report the canonical entry it lands on.`,
	Run: resolveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.RubroID, "id", "r", "", "Rubro id to resolve")
	Cmd.Flags().StringVarP(&root.Description, "description", "d", "", "Description to resolve")
}

func resolveFunc(cmd *cobra.Command, args []string) {
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	if root.RubroID == "" && root.Description == "" {
		logger.Error("Either --id or --description is required")
		return
	}

	s := store.NewSnapshotStore(root.SharedFlags.TaxonomyFile, root.SharedFlags.AliasesFile, logger)

	raw, err := s.LoadTaxonomy()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load taxonomy")
	}

	aliases, err := s.LoadAliases()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load alias mappings")
	}

	index := taxonomy.BuildIndex(raw)
	resolver := taxonomy.NewResolverWithAliases(index, aliases, logger)

	ref := models.RubroReference{RubroID: root.RubroID, Description: root.Description}
	entry := resolver.Lookup(ref, taxonomy.NewCache())
	if entry == nil {
		logger.WithFields(
			logging.Field{Key: logging.FieldRubroID, Value: root.RubroID},
			logging.Field{Key: logging.FieldKey, Value: root.Description},
		).Warn("Reference did not resolve")
		return
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldRubroID, Value: entry.RubroID},
		logging.Field{Key: logging.FieldCategory, Value: entry.BestCategory()},
		logging.Field{Key: "is_labor", Value: entry.IsLabor},
	).Info(entry.BestDescription())
}
