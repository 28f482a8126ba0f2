// Package store provides functionality for loading and saving planning data
// snapshots: taxonomy catalogs, alias mappings, allocations, line items and
// payroll exports.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
	"github.com/CVDExInfo/finplan/internal/payroll"
)

// Default filenames used when the store is constructed without explicit paths.
const (
	DefaultTaxonomyFile    = "taxonomy.yaml"
	DefaultAliasesFile     = "aliases.yaml"
	DefaultAllocationsFile = "allocations.json"
	DefaultCatalogFile     = "catalog.json"
	DefaultLineItemsFile   = "line_items.json"
	DefaultPayrollFile     = "payroll.csv"
)

// taxonomyConfig is the preferred on-disk shape of a taxonomy snapshot, with
// entries nested under a top-level key.
type taxonomyConfig struct {
	Rubros map[string]models.TaxonomyEntry `yaml:"rubros"`
}

// SnapshotStore manages loading and saving of planning data files.
type SnapshotStore struct {
	TaxonomyFile    string
	AliasesFile     string
	AllocationsFile string
	CatalogFile     string
	LineItemsFile   string
	PayrollFile     string

	logger logging.Logger
}

// NewSnapshotStore creates a store rooted at the given data files. Empty
// paths fall back to the default filenames resolved through the standard
// locations.
func NewSnapshotStore(taxonomyFile, aliasesFile string, logger logging.Logger) *SnapshotStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &SnapshotStore{
		TaxonomyFile: taxonomyFile,
		AliasesFile:  aliasesFile,
		logger:       logger,
	}
}

// FindDataFile looks for a data file in standard locations.
func (s *SnapshotStore) FindDataFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("data", filename),
		filepath.Join("config", filename),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "finplan", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadTaxonomy loads the taxonomy snapshot from YAML. A missing file is not
// an error: resolution must still work from the seeded labor entries alone,
// so an empty map is returned instead.
func (s *SnapshotStore) LoadTaxonomy() (map[string]models.TaxonomyEntry, error) {
	filename := s.TaxonomyFile
	if filename == "" {
		filename = DefaultTaxonomyFile
	}

	filePath, err := s.FindDataFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField(logging.FieldFile, filename).Warn("Taxonomy file not found, using seeded entries only")
			return map[string]models.TaxonomyEntry{}, nil
		}
		return nil, fmt.Errorf("error resolving taxonomy file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading taxonomy file: %w", err)
	}

	var cfg taxonomyConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.Rubros) > 0 {
		s.logger.WithFields(
			logging.Field{Key: logging.FieldCount, Value: len(cfg.Rubros)},
			logging.Field{Key: logging.FieldFile, Value: filePath},
		).Debug("Loaded taxonomy entries")
		return cfg.Rubros, nil
	}

	// Fallback for snapshots without the top-level key.
	var entries map[string]models.TaxonomyEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing taxonomy file: %w", err)
	}
	if entries == nil {
		entries = map[string]models.TaxonomyEntry{}
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
	).Debug("Loaded taxonomy entries")
	return entries, nil
}

// LoadAliases loads alias-to-rubro mappings from YAML. A missing file yields
// an empty map.
func (s *SnapshotStore) LoadAliases() (map[string]string, error) {
	filename := s.AliasesFile
	if filename == "" {
		filename = DefaultAliasesFile
	}

	filePath, err := s.FindDataFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField(logging.FieldFile, filename).Warn("Alias mappings file not found")
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("error resolving alias mappings file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading alias mappings file: %w", err)
	}

	var mappings map[string]string
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing alias mappings: %w", err)
	}
	if mappings == nil {
		mappings = map[string]string{}
	}

	return mappings, nil
}

// SaveAliases saves alias-to-rubro mappings to YAML, creating the data
// directory when the file does not exist yet.
func (s *SnapshotStore) SaveAliases(mappings map[string]string) error {
	filename := s.AliasesFile
	if filename == "" {
		filename = DefaultAliasesFile
	}

	filePath, err := s.FindDataFile(filename)
	if err != nil && err != os.ErrNotExist {
		return fmt.Errorf("error resolving alias mappings file: %w", err)
	}
	if err == os.ErrNotExist {
		if filepath.IsAbs(filename) {
			filePath = filename
		} else {
			filePath = filepath.Join("data", filename)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(mappings)
	if err != nil {
		return fmt.Errorf("error marshaling alias mappings: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing alias mappings: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(mappings)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
	).Debug("Saved alias mappings")
	return nil
}

// LoadAllocations loads allocation records from a JSON export.
func (s *SnapshotStore) LoadAllocations(path string) ([]models.Allocation, error) {
	var allocations []models.Allocation
	if err := s.loadJSON(path, DefaultAllocationsFile, &allocations); err != nil {
		return nil, err
	}
	return allocations, nil
}

// LoadCatalog loads rubro catalog entries from a JSON export.
func (s *SnapshotStore) LoadCatalog(path string) ([]models.RubroCatalogEntry, error) {
	var catalog []models.RubroCatalogEntry
	if err := s.loadJSON(path, DefaultCatalogFile, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// LoadLineItems loads line items from a JSON export.
func (s *SnapshotStore) LoadLineItems(path string) ([]*models.LineItem, error) {
	var items []*models.LineItem
	if err := s.loadJSON(path, DefaultLineItemsFile, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveLineItems writes line items back out as JSON, preserving field order
// for stable diffs.
func (s *SnapshotStore) SaveLineItems(path string, items []*models.LineItem) error {
	if path == "" {
		path = DefaultLineItemsFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling line items: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing line items: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(items)},
		logging.Field{Key: logging.FieldFile, Value: path},
	).Debug("Saved line items")
	return nil
}

// LoadPayroll loads payroll actual rows from a CSV export.
func (s *SnapshotStore) LoadPayroll(path string) ([]payroll.Row, error) {
	if path == "" {
		path = DefaultPayrollFile
	}

	filePath, err := s.FindDataFile(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving payroll file %s: %w", path, err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening payroll file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.logger.WithError(closeErr).Warn("Failed to close payroll file")
		}
	}()

	var rows []payroll.Row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing payroll file: %w", err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
	).Debug("Loaded payroll rows")
	return rows, nil
}

func (s *SnapshotStore) loadJSON(path, fallback string, out interface{}) error {
	if path == "" {
		path = fallback
	}

	filePath, err := s.FindDataFile(path)
	if err != nil {
		return fmt.Errorf("error resolving data file %s: %w", path, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading data file %s: %w", filePath, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error parsing data file %s: %w", filePath, err)
	}

	return nil
}
