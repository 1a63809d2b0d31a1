package migration

import (
	"embed"
	"path"
)

//go:embed scripts
var scriptsFS embed.FS

const (
	gooseScriptsRoot         = "scripts/goose"
	golangMigrateScriptsRoot = "scripts/golangmigrate"

	// SourceScriptsRoot is where new migration files are written, relative to
	// the repository root.
	SourceScriptsRoot = "internal/infrastructure/migration"
)

// gooseDialect maps a database driver name to goose's dialect name.
func gooseDialect(driver string) string {
	if driver == "sqlite" || driver == "sqlite3" {
		return "sqlite3"
	}
	return "mysql"
}

func gooseScriptsDir(driver string) string {
	return path.Join(gooseScriptsRoot, gooseDialect(driver))
}
