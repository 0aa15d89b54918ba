package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/app"
	"github.com/spf13/pflag"
)

const (
	dsnFlag           = "dsn"
	migrationPathFlag = "migrations-path"
	stepsFlag         = "steps"
)

type flags struct {
	dsn        string
	migrations string
	steps      int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	app.InitLogger(stderr, cfg.LogLevel)

	f, err := parseFlags(args, cfg.SQLDB)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if err := migrateDB(f); err != nil {
		slog.Error("migration failed", "err", err)
		return 1
	}
	return 0
}

// A migrationLogger adapts slog to [migrate.Logger].
type migrationLogger struct {
	logger *slog.Logger
}

func (ml migrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml migrationLogger) Verbose() bool {
	return true
}

func parseFlags(args []string, defaultDSN string) (flags, error) {
	var f flags
	fs := pflag.NewFlagSet("migrator", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.StringVarP(&f.dsn, dsnFlag, "d", defaultDSN,
		"postgres URL, defaults to sql_db of the config")
	fs.StringVarP(&f.migrations, migrationPathFlag, "m", "migrations",
		"directory with *.up.sql and *.down.sql files")
	fs.IntVarP(&f.steps, stepsFlag, "n", 0,
		"apply n migrations, negative rolls back, 0 applies all")
	if err := fs.Parse(args); err != nil {
		return flags{}, err
	}

	var errs []error
	if f.dsn == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", dsnFlag))
	}
	if f.migrations == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}
	return f, errors.Join(errs...)
}

// migrateURL points the postgres URL at the pgx/v5 migrate driver.
func migrateURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://", "pgx5://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return "pgx5://" + dsn
}

func migrateDB(f flags) error {
	m, err := migrate.New("file://"+f.migrations, migrateURL(f.dsn))
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("failed to close migrator", "err", errors.Join(srcErr, dbErr))
		}
	}()
	m.Log = migrationLogger{slog.Default()}

	if f.steps != 0 {
		err = m.Steps(f.steps)
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no change")
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("migrations are applied", "steps", f.steps)
	return nil
}
