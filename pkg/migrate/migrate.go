package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
)

//go:embed migrations/*.sql
var embedded embed.FS

// DefaultDir is the on-disk location of the bundled migrations, used by `create`.
const DefaultDir = "pkg/migrate/migrations"

// EmbeddedFS returns the migrations compiled into the binary.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrations embed missing: %v", err))
	}
	return sub
}

// DirFS reads migrations from a directory instead of the embedded set.
func DirFS(dir string) fs.FS {
	return os.DirFS(dir)
}

// Applied describes one migration run by Up, Down or To.
type Applied struct {
	Version   int64
	Path      string
	Direction string
	Duration  time.Duration
}

// Status is the state of one migration file against the database.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator runs the postgres SQL migrations through a goose provider. SQLite
// deployments use AutoMigrateModels instead.
type Migrator struct {
	provider *goose.Provider
	logg     *logger.Logger
}

func NewMigrator(db *sql.DB, fsys fs.FS, logg *logger.Logger) (*Migrator, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if fsys == nil {
		fsys = EmbeddedFS()
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Migrator{provider: provider, logg: logg}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) ([]Applied, error) {
	results, err := m.provider.Up(ctx)
	applied := m.record(ctx, results)
	if err != nil {
		return applied, fmt.Errorf("goose up: %w", err)
	}
	return applied, nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) ([]Applied, error) {
	result, err := m.provider.Down(ctx)
	var applied []Applied
	if result != nil {
		applied = m.record(ctx, []*goose.MigrationResult{result})
	}
	if err != nil {
		return applied, fmt.Errorf("goose down: %w", err)
	}
	return applied, nil
}

// To moves the schema up or down to the target YYYYMMDDHHMMSS version.
func (m *Migrator) To(ctx context.Context, targetVersion string) ([]Applied, error) {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	current, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil, nil
	case current < target:
		results, err = m.provider.UpTo(ctx, target)
	default:
		results, err = m.provider.DownTo(ctx, target)
	}
	applied := m.record(ctx, results)
	if err != nil {
		return applied, fmt.Errorf("goose migrate to %d: %w", target, err)
	}
	return applied, nil
}

func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	states, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]Status, 0, len(states))
	for _, st := range states {
		if st == nil || st.Source == nil {
			continue
		}
		out = append(out, Status{
			Version:   st.Source.Version,
			Path:      st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}

func (m *Migrator) record(ctx context.Context, results []*goose.MigrationResult) []Applied {
	applied := make([]Applied, 0, len(results))
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		entry := Applied{
			Version:   res.Source.Version,
			Path:      res.Source.Path,
			Direction: res.Direction,
			Duration:  res.Duration,
		}
		applied = append(applied, entry)
		if m.logg != nil {
			m.logg.Info(m.logg.WithFields(ctx, map[string]any{
				"version":     entry.Version,
				"file":        entry.Path,
				"direction":   entry.Direction,
				"duration_ms": entry.Duration.Milliseconds(),
			}), "migration applied")
		}
	}
	return applied
}
