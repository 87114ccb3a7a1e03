package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/migrate"
)

const usage = `usage: migrate [-dir path] <command> [arg]

commands:
  up                apply all pending migrations
  down              roll back the latest migration
  status            list migrations and whether they are applied
  to <version>      migrate up or down to YYYYMMDDHHMMSS
  create <name>     write a new empty migration into -dir
  validate          check migration names and goose annotations
`

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command, arg := flag.Arg(0), flag.Arg(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, arg, *dir); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", command, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command, arg, dir string) error {
	fsys := migrate.EmbeddedFS()
	if dir != "" {
		fsys = migrate.DirFS(dir)
	}

	// offline commands
	switch command {
	case "create":
		if arg == "" {
			return errors.New("missing migration name")
		}
		if dir == "" {
			dir = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(dir, arg, time.Now())
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		if err := migrate.ValidateFS(fsys); err != nil {
			return err
		}
		fmt.Println("migrations valid")
		return nil
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "command": command})

	migrator, closeDB, err := openMigrator(ctx, cfg, fsys, logg)
	if err != nil {
		return err
	}
	defer closeDB()

	switch command {
	case "up":
		_, err = migrator.Up(ctx)
	case "down":
		_, err = migrator.Down(ctx)
	case "to":
		if arg == "" {
			return errors.New("missing target version")
		}
		_, err = migrator.To(ctx, arg)
	case "status":
		err = printStatus(ctx, migrator)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
	return err
}

func openMigrator(ctx context.Context, cfg *config.Config, fsys fs.FS, logg *logger.Logger) (*migrate.Migrator, func(), error) {
	if cfg.DB.Driver == config.DriverSQLite {
		return nil, nil, errors.New("sql migrations target postgres; sqlite schemas come from RENTALFLEET_AUTO_MIGRATE")
	}
	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeDB := func() {
		if err := client.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("extract sql.DB: %w", err)
	}
	migrator, err := migrate.NewMigrator(sqlDB, fsys, logg)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return migrator, closeDB, nil
}

func printStatus(ctx context.Context, migrator *migrate.Migrator) error {
	statuses, err := migrator.Status(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tFILE\tAPPLIED AT")
	for _, st := range statuses {
		appliedAt := "pending"
		if st.Applied {
			appliedAt = st.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", st.Version, st.Path, appliedAt)
	}
	return tw.Flush()
}
