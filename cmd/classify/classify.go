// Package classify handles the line-item category repair command
package classify

import (
	"github.com/spf13/cobra"

	"github.com/CVDExInfo/finplan/cmd/root"
	"github.com/CVDExInfo/finplan/internal/classifier"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/store"
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Repair line-item categories for labor roles",
	Long: `Scan line items and set the direct-labor category on items whose role
indicates labor but whose category says otherwise. Items already carrying a
meaningful category are left untouched.`,
	Run: classifyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.LineItemsFile, "items", "i", "", "Line items file (JSON)")
	if err := Cmd.MarkFlagRequired("items"); err != nil {
		root.Log.Fatalf("Failed to mark items flag required: %v", err)
	}
}

func classifyFunc(cmd *cobra.Command, args []string) {
	logger := logging.NewLogrusAdapterFromLogger(root.Log)

	s := store.NewSnapshotStore(root.SharedFlags.TaxonomyFile, root.SharedFlags.AliasesFile, logger)

	items, err := s.LoadLineItems(root.LineItemsFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load line items")
	}

	repaired, corrected := classifier.EnsureCategories(items)
	logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(repaired)},
		logging.Field{Key: "corrected", Value: corrected},
	).Info("Classified line items")

	output := root.SharedFlags.Output
	if output == "" {
		output = root.LineItemsFile
	}

	if err := s.SaveLineItems(output, repaired); err != nil {
		logger.WithError(err).Fatal("Failed to save line items")
	}
}
