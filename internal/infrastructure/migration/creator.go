package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}
-- Description: {{.Description}}

-- Write your UP migration SQL here

`

const downTemplate = `-- Migration: {{.Name}} (rollback)
-- Created: {{.Timestamp.Format "2006-01-02T15:04:05Z07:00"}}
-- Description: Rollback for {{.Description}}

-- Write your DOWN migration SQL here

`

// MigrationFile describes a freshly scaffolded migration pair.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   time.Time
	UpPath      string
	DownPath    string
}

// CreateMigration scaffolds an up/down SQL pair under dir. The version is
// the creation time in 14-digit form so files sort chronologically.
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	name = sanitizeName(name)
	if name == "" {
		return nil, fmt.Errorf("migration name is empty after sanitizing")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	mf := &MigrationFile{
		Version:     now.Format("20060102150405"),
		Name:        name,
		Description: description,
		Timestamp:   now,
	}
	mf.UpPath = filepath.Join(dir, fmt.Sprintf("%s_%s.up.sql", mf.Version, name))
	mf.DownPath = filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", mf.Version, name))

	if err := writeFromTemplate(mf.UpPath, upTemplate, mf); err != nil {
		return nil, err
	}
	if err := writeFromTemplate(mf.DownPath, downTemplate, mf); err != nil {
		os.Remove(mf.UpPath)
		return nil, err
	}

	return mf, nil
}

func writeFromTemplate(path, tmpl string, mf *MigrationFile) error {
	t, err := template.New(filepath.Base(path)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parse migration template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create migration file %s: %w", path, err)
	}
	defer f.Close()

	if err := t.Execute(f, mf); err != nil {
		return fmt.Errorf("render migration file %s: %w", path, err)
	}
	return nil
}

// sanitizeName lowers the name and keeps only letters, digits and single
// underscores, trimming underscores at either end.
func sanitizeName(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_' || r == ' ' || r == '-':
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// ListMigrations returns the distinct migration basenames under dir, sorted.
// A missing directory is treated as empty.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".up.sql"))
	}

	sort.Strings(names)
	return names, nil
}
