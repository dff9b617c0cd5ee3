package gateway

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"settlement-profit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWorkbook_Rows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Barcode", "Article", "Payout"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"4600000000017", "ART-1", 1250.75}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"4600000000024", "ART-2", -30}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got := readNonEmptyRows(t, path)
	assert.Equal(t, [][]string{
		{"Barcode", "Article", "Payout"},
		{"4600000000017", "ART-1", "1250.75"},
		{"4600000000024", "ART-2", "-30"},
	}, got)
}

func TestXLSXWorkbook_Rows_Errors(t *testing.T) {
	ctx := context.Background()
	gw := NewXLSXWorkbook()

	t.Run("file not found", func(t *testing.T) {
		err := gw.Rows(ctx, filepath.Join(t.TempDir(), "missing.xlsx"), func([]string) error { return nil })
		assert.ErrorIs(t, err, domain.ErrInvalidWorkbook)
	})

	t.Run("not a workbook", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("plain text, not a zip archive"), 0o600))

		err := gw.Rows(ctx, path, func([]string) error { return nil })
		assert.ErrorIs(t, err, domain.ErrInvalidWorkbook)
	})
}

func TestXLSXWorkbook_WriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "processed.xlsx")
	gw := NewXLSXWorkbook()

	rows := [][]interface{}{
		{"Barcode", "Profit"},
		{"4600000000017", 735.0},
		{"4600000000024", -30.0},
		{},
		{"TotalProfit"},
		{705.0},
	}
	require.NoError(t, gw.WriteReport(context.Background(), path, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{ReportSheetName}, f.GetSheetList())

	blank, err := f.GetCellValue(ReportSheetName, "A4")
	require.NoError(t, err)
	assert.Empty(t, blank)

	got := readNonEmptyRows(t, path)
	assert.Equal(t, [][]string{
		{"Barcode", "Profit"},
		{"4600000000017", "735"},
		{"4600000000024", "-30"},
		{"TotalProfit"},
		{"705"},
	}, got)
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestXLSXWorkbook_WriteReport_Failures(t *testing.T) {
	gw := NewXLSXWorkbook()
	rows := [][]interface{}{{"Barcode"}, {"4600000000017"}}

	t.Run("parent is a file", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o600))

		err := gw.WriteReport(context.Background(), filepath.Join(blocker, "out.xlsx"), rows)
		assert.ErrorIs(t, err, domain.ErrWriteReport)
	})

	t.Run("target is a directory", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "out.xlsx")
		require.NoError(t, os.Mkdir(target, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o600))

		err := gw.WriteReport(context.Background(), target, rows)
		assert.ErrorIs(t, err, domain.ErrWriteReport)
		assertNoTempFiles(t, dir)
	})

	t.Run("cancelled context leaves nothing behind", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "out.xlsx")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := gw.WriteReport(ctx, target, rows)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, target)
		assertNoTempFiles(t, dir)
	})
}

func readNonEmptyRows(t *testing.T, path string) [][]string {
	t.Helper()
	var got [][]string
	err := NewXLSXWorkbook().Rows(context.Background(), path, func(cells []string) error {
		if len(cells) > 0 {
			got = append(got, append([]string(nil), cells...))
		}
		return nil
	})
	require.NoError(t, err)
	return got
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasPrefix(entry.Name(), ".report-"), "leftover temp file %s", entry.Name())
	}
}
