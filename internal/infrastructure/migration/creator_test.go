package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "create_receipts", expected: "create_receipts"},
		{name: "uppercase", input: "CreateDebitNotes", expected: "createdebitnotes"},
		{name: "spaces", input: "add uid registry", expected: "add_uid_registry"},
		{name: "dashes", input: "add-payables-index", expected: "add_payables_index"},
		{name: "surrounding spaces", input: "   spaces   ", expected: "spaces"},
		{name: "repeated separators", input: "stock__ledger  columns", expected: "stock_ledger_columns"},
		{name: "special characters dropped", input: "special!@#$chars", expected: "specialchars"},
		{name: "leading underscore", input: "_leading", expected: "leading"},
		{name: "trailing underscore", input: "trailing_", expected: "trailing"},
		{name: "digits kept", input: "v2_sequences", expected: "v2_sequences"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add QC Holds", "Quality-control hold table for receipt lines")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, "add_qc_holds", mf.Name)
	assert.Equal(t, mf.Version+"_add_qc_holds.up.sql", filepath.Base(mf.UpPath))
	assert.Equal(t, mf.Version+"_add_qc_holds.down.sql", filepath.Base(mf.DownPath))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_qc_holds")
	assert.Contains(t, string(up), "-- Description: Quality-control hold table for receipt lines")
	assert.Contains(t, string(up), "Write your UP migration SQL here")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Write your DOWN migration SQL here")
}

func TestCreateMigration_EmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "nothing survives sanitizing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "create_vendors", "Vendor master table")
	require.NoError(t, err)

	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"20250421090000_create_procurement_masters.up.sql",
		"20250421090000_create_procurement_masters.down.sql",
		"20250421091500_create_receipts.up.sql",
		"20250421091500_create_receipts.down.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- sql"), 0o644))
	}

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20250421090000_create_procurement_masters",
		"20250421091500_create_receipts",
	}, names)
}

func TestListMigrations_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.sql"), []byte("-- sql"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250421101500_create_outbox_entries.up.sql"), []byte("-- sql"), 0o644))

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250421101500_create_outbox_entries"}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
