// Package report summarizes forecast cells into run-level totals and exports
// them for spreadsheet review.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CVDExInfo/finplan/internal/classifier"
	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
)

// Delimiter is the column separator used for CSV exports.
var Delimiter rune = ','

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// Summary is the run-level rollup of one forecast computation.
type Summary struct {
	RunID       string    `json:"runId" yaml:"runId"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
	ProjectID   string    `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	CellCount   int       `json:"cellCount" yaml:"cellCount"`

	TotalPlanned  decimal.Decimal `json:"totalPlanned" yaml:"totalPlanned"`
	TotalForecast decimal.Decimal `json:"totalForecast" yaml:"totalForecast"`
	TotalActual   decimal.Decimal `json:"totalActual" yaml:"totalActual"`
	TotalVariance decimal.Decimal `json:"totalVariance" yaml:"totalVariance"`

	// Forecast totals broken down by category name and by month index.
	ByCategory map[string]decimal.Decimal `json:"byCategory" yaml:"byCategory"`
	ByMonth    map[int]decimal.Decimal    `json:"byMonth" yaml:"byMonth"`

	// LaborForecast is the forecast total of cells whose category classifies
	// as direct labor; LaborShare is its fraction of TotalForecast.
	LaborForecast decimal.Decimal `json:"laborForecast" yaml:"laborForecast"`
	LaborShare    decimal.Decimal `json:"laborShare" yaml:"laborShare"`
}

// Summarize rolls up forecast cells into a Summary with a fresh run id.
func Summarize(cells []models.ForecastCell) *Summary {
	summary := &Summary{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		CellCount:   len(cells),
		ByCategory:  make(map[string]decimal.Decimal),
		ByMonth:     make(map[int]decimal.Decimal),
	}

	for _, cell := range cells {
		if summary.ProjectID == "" {
			summary.ProjectID = cell.ProjectID
		}

		summary.TotalPlanned = summary.TotalPlanned.Add(cell.Planned)
		summary.TotalForecast = summary.TotalForecast.Add(cell.Forecast)
		summary.TotalActual = summary.TotalActual.Add(cell.Actual)
		summary.TotalVariance = summary.TotalVariance.Add(cell.Variance)

		summary.ByCategory[cell.Category] = summary.ByCategory[cell.Category].Add(cell.Forecast)
		summary.ByMonth[cell.Month] = summary.ByMonth[cell.Month].Add(cell.Forecast)

		if classifier.IsLabor(cell.Category, "") {
			summary.LaborForecast = summary.LaborForecast.Add(cell.Forecast)
		}
	}

	if !summary.TotalForecast.IsZero() {
		summary.LaborShare = summary.LaborForecast.Div(summary.TotalForecast).Round(4)
	}

	return summary
}

// Categories returns the category names in the summary, sorted.
func (s *Summary) Categories() []string {
	names := make([]string, 0, len(s.ByCategory))
	for name := range s.ByCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteCellsCSV exports forecast cells to a CSV file.
func WriteCellsCSV(cells []models.ForecastCell, csvFile string, logger logging.Logger) error {
	if cells == nil {
		return fmt.Errorf("cannot write nil cells to CSV")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Create(csvFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(cells, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		logger.WithError(err).Error("Failed to marshal forecast cells to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(cells)},
	).Info("Successfully wrote forecast cells to CSV file")

	return nil
}
