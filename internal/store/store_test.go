package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CVDExInfo/finplan/internal/logging"
	"github.com/CVDExInfo/finplan/internal/models"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestLoadTaxonomyNestedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "taxonomy.yaml", `rubros:
  SW-LICENSE:
    rubroId: SW-LICENSE
    description: Licencias de Software
    category: Software
  MOD-ING:
    rubroId: MOD-ING
    descripcion: Ingeniero
    isLabor: true
`)

	s := NewSnapshotStore(path, "", logging.NewMockLogger())
	entries, err := s.LoadTaxonomy()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Licencias de Software", entries["SW-LICENSE"].Description)
	assert.True(t, entries["MOD-ING"].IsLabor)
	assert.Equal(t, "Ingeniero", entries["MOD-ING"].Descripcion)
}

func TestLoadTaxonomyFlatFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flat.yaml", `SW-LICENSE:
  rubroId: SW-LICENSE
  description: Licencias de Software
`)

	s := NewSnapshotStore(path, "", logging.NewMockLogger())
	entries, err := s.LoadTaxonomy()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SW-LICENSE", entries["SW-LICENSE"].RubroID)
}

func TestLoadTaxonomyMissingFileIsEmpty(t *testing.T) {
	logger := logging.NewMockLogger()
	s := NewSnapshotStore(filepath.Join(t.TempDir(), "nope.yaml"), "", logger)

	entries, err := s.LoadTaxonomy()
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
	assert.True(t, logger.HasEntry("WARN", "Taxonomy file not found, using seeded entries only"))
}

func TestLoadTaxonomyMalformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "rubros: [not, a, map")

	s := NewSnapshotStore(path, "", logging.NewMockLogger())
	_, err := s.LoadTaxonomy()
	assert.Error(t, err)
}

func TestLoadAndSaveAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")

	s := NewSnapshotStore("", path, logging.NewMockLogger())

	mappings, err := s.LoadAliases()
	require.NoError(t, err)
	assert.Empty(t, mappings)

	wanted := map[string]string{
		"Gerente de Proyecto": "MOD-LEAD",
		"Licencias Cloud":     "SW-LICENSE",
	}
	require.NoError(t, s.SaveAliases(wanted))

	loaded, err := s.LoadAliases()
	require.NoError(t, err)
	assert.Equal(t, wanted, loaded)
}

func TestLoadAllocations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "allocations.json", `[
  {"rubro_id": "SW-LICENSE", "month_index": 3, "amount": "1'200.50"},
  {"rubroId": "MOD-ING", "calendar_month": "2025-06", "amount": 800}
]`)

	s := NewSnapshotStore("", "", logging.NewMockLogger())
	allocations, err := s.LoadAllocations(path)
	require.NoError(t, err)
	require.Len(t, allocations, 2)

	assert.Equal(t, "SW-LICENSE", allocations[0].RubroIDSnake)
	require.NotNil(t, allocations[0].MonthIndex)
	assert.Equal(t, 3, *allocations[0].MonthIndex)
	assert.True(t, allocations[0].Amount.Decimal.Equal(decimalFromString(t, "1200.50")))

	assert.Equal(t, "MOD-ING", allocations[1].RubroID)
	assert.Equal(t, "2025-06", allocations[1].CalendarMonth)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.json", `[
  {"id": "IT-1", "rubroId": "SW-LICENSE", "description": "Licencias", "category": "Software"}
]`)

	s := NewSnapshotStore("", "", logging.NewMockLogger())
	catalog, err := s.LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "SW-LICENSE", catalog[0].RubroID)
}

func TestLineItemsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.json")

	items := []*models.LineItem{
		{LineItemID: "li-1", Description: "Ingeniero Lider", Role: "Project Manager"},
		{LineItemID: "li-2", Description: "Licencias", Category: "Software"},
	}

	s := NewSnapshotStore("", "", logging.NewMockLogger())
	require.NoError(t, s.SaveLineItems(path, items))

	loaded, err := s.LoadLineItems(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Project Manager", loaded[0].Role)
	assert.Equal(t, "Software", loaded[1].Category)
}

func TestLoadPayroll(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "payroll.csv", `project_id,rubro_id,role,description,month,amount
P-1,MOD-ING,Ingeniero,,3,"1,200.00"
P-1,,Project Manager,,2025-04,8000
`)

	s := NewSnapshotStore("", "", logging.NewMockLogger())
	rows, err := s.LoadPayroll(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "MOD-ING", rows[0].RubroID)
	assert.Equal(t, "1,200.00", rows[0].Amount)
	assert.Equal(t, "Project Manager", rows[1].Role)
	assert.Equal(t, "2025-04", rows[1].Month)
}

func TestLoadPayrollMissingFile(t *testing.T) {
	s := NewSnapshotStore("", "", logging.NewMockLogger())
	_, err := s.LoadPayroll(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestFindDataFileAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exists.yaml", "a: 1\n")

	s := NewSnapshotStore("", "", logging.NewMockLogger())

	found, err := s.FindDataFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = s.FindDataFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
