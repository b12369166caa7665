package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- Migration: {{.Name}} ({{.Dialect}})
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`

const migrationDownTemplate = `-- Migration: {{.Name}} ({{.Dialect}}, rollback)
-- Created: {{.Timestamp}}

`

// Dialects are the subdirectories every migration is written for
var Dialects = []string{"postgres", "sqlite"}

// MigrationFile describes one created up/down pair
type MigrationFile struct {
	Version     string
	Name        string
	Dialect     string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair for every dialect under dir.
// Versions are sequential and zero padded to six digits.
func CreateMigration(dir, name, description string) ([]MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, errors.New("migration name must contain letters or digits")
	}

	next := 1
	for _, dialect := range Dialects {
		existing, err := ListMigrations(os.DirFS(dir), dialect)
		if err != nil {
			return nil, err
		}
		if n := lastVersion(existing) + 1; n > next {
			next = n
		}
	}
	version := fmt.Sprintf("%06d", next)
	timestamp := time.Now().Format(time.RFC3339)

	created := make([]MigrationFile, 0, len(Dialects))
	for _, dialect := range Dialects {
		dialectDir := filepath.Join(dir, dialect)
		if err := os.MkdirAll(dialectDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		mf := MigrationFile{
			Version:     version,
			Name:        name,
			Dialect:     dialect,
			Description: description,
			Timestamp:   timestamp,
			UpPath:      filepath.Join(dialectDir, version+"_"+base+".up.sql"),
			DownPath:    filepath.Join(dialectDir, version+"_"+base+".down.sql"),
		}
		if err := writeFromTemplate(mf.UpPath, migrationUpTemplate, mf); err != nil {
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		if err := writeFromTemplate(mf.DownPath, migrationDownTemplate, mf); err != nil {
			_ = os.Remove(mf.UpPath)
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		created = append(created, mf)
	}

	return created, nil
}

func writeFromTemplate(path, tmplContent string, data MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted base names of the up migrations in dir of fsys.
// A missing directory yields an empty list.
func ListMigrations(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}

func lastVersion(migrations []string) int {
	last := 0
	for _, m := range migrations {
		prefix, _, _ := strings.Cut(m, "_")
		if n, err := strconv.Atoi(prefix); err == nil && n > last {
			last = n
		}
	}
	return last
}
