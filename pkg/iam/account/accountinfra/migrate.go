package accountinfra

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// gooseLogger routes goose output through logx.
type gooseLogger struct {
	logger *logx.Logger
}

func (g gooseLogger) Printf(format string, v ...any) { g.logger.Infof(format, v...) }
func (g gooseLogger) Fatalf(format string, v ...any) { g.logger.Fatalf(format, v...) }

// Migrate applies every pending migration.
func Migrate(ctx context.Context, db *sql.DB, logger *logx.Logger) error {
	goose.SetBaseFS(Migrations)
	goose.SetLogger(gooseLogger{logger: logger.Named("migrations")})
	if err := goose.SetDialect("postgres"); err != nil {
		return errx.Wrap(err, "set migration dialect", errx.TypeInternal)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errx.Wrap(err, "apply migrations", errx.TypeInternal)
	}
	return nil
}
