package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/config"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/logger"
	"github.com/techverse-private-limited/stock-blueprints-54/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "internal/infrastructure/migration/sql"

func main() {
	fset := ff.NewFlagSet("migrate")
	var (
		migrationsPath = fset.StringLong("path", "", "migrations root holding postgres/ and sqlite/ (default: embedded migrations)")
		logLevel       = fset.StringLong("log-level", "info", "log level (debug, info, warn, error)")
	)

	if err := ff.Parse(fset, os.Args[1:], ff.WithEnvVarPrefix("POS_MIGRATE")); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fset))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := fset.GetArgs()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if err := run(log, *migrationsPath, args); err != nil {
		log.Error("Migration command failed", zap.String("command", args[0]), zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
}

func run(log *zap.Logger, migrationsPath string, args []string) error {
	command := args[0]

	// create works on the source tree and needs no database
	if command == "create" {
		if len(args) < 2 {
			return errors.New("migration name required: migrate create <name> [description]")
		}
		dir := migrationsPath
		if dir == "" {
			dir = defaultMigrationsDir
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		files, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Info("Migration created",
				zap.String("version", f.Version),
				zap.String("dialect", f.Dialect),
				zap.String("up_file", f.UpPath),
				zap.String("down_file", f.DownPath),
			)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	driver := cfg.Database.Driver

	if command == "list" {
		var fsys fs.FS
		if migrationsPath == "" {
			if fsys, err = migration.Source(driver); err != nil {
				return err
			}
		} else {
			fsys = os.DirFS(filepath.Join(migrationsPath, driver))
		}
		migrations, err := migration.ListMigrations(fsys, ".")
		if err != nil {
			return err
		}
		log.Info("Available migrations", zap.String("driver", driver), zap.Int("count", len(migrations)))
		for _, m := range migrations {
			fmt.Println("  -", m)
		}
		return nil
	}

	db, err := migration.Open(&cfg.Database)
	if err != nil {
		return err
	}

	dialectPath := ""
	if migrationsPath != "" {
		abs, err := filepath.Abs(filepath.Join(migrationsPath, driver))
		if err != nil {
			return fmt.Errorf("failed to resolve migrations path: %w", err)
		}
		dialectPath = abs
	}

	m, err := migration.New(db, driver, dialectPath, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	switch command {
	case "up":
		return m.Up()

	case "down":
		if len(args) < 2 {
			return m.Down()
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return m.Steps(-n)

	case "steps":
		if len(args) < 2 {
			return errors.New("step count required: migrate steps <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return m.Steps(n)

	case "goto":
		if len(args) < 2 {
			return errors.New("version required: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.GoTo(uint(version))

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil

	case "force":
		if len(args) < 2 {
			return errors.New("version required: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		log.Warn("Forcing migration version, the schema is not changed")
		return m.Force(version)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Println(`Tasty Bite POS migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down [n]              Roll back n migrations (all when n is omitted)
  steps <n>             Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version after a failed run
  create <name> [desc]  Create a postgres and sqlite migration pair
  list                  List migrations for the configured driver

Flags:
  --path string         Migrations root (default: the embedded migrations)
  --log-level string    Log level (default: info)

The database comes from config.toml and POS_DATABASE_* variables.`)
}
