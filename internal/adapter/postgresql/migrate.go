package postgresql

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger(verbose bool) *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.With("op", "migrate"),
		verbose: verbose,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

// Migrate applies the embedded migrations to the database at dsn. When dir
// is not empty, migrations are read from that directory instead.
func Migrate(dsn, dir string) error {
	const op = "postgresql.Migrate"

	m, err := newMigrate(dsn, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Error("failed to close migrate",
				"op", op, "err", errors.Join(srcErr, dbErr))
		}
	}()

	m.Log = NewMigrationLogger(false)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	m.Log.Printf("migrations applied")
	return nil
}

func newMigrate(dsn, dir string) (*migrate.Migrate, error) {
	databaseURL := DatabaseURL(dsn)
	if dir != "" {
		return migrate.New("file://"+dir, databaseURL)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// DatabaseURL rewrites a postgres dsn to the pgx5 migrate scheme.
func DatabaseURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	if strings.HasPrefix(dsn, "pgx5://") {
		return dsn
	}
	return "pgx5://" + dsn
}
