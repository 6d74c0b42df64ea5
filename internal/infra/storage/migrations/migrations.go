package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/m04kA/SMC-TableService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableService/pkg/psqlbuilder"
)

//go:embed sql/*.sql
var files embed.FS

// ErrMigration возвращается при ошибке применения миграции
var ErrMigration = errors.New("migrations: failed to apply migration")

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

// Up применяет все ещё не применённые миграции по порядку имён файлов
// Каждая миграция выполняется в отдельной транзакции вместе с записью в schema_migrations
func Up(ctx context.Context, db dbmetrics.DBExecutor, txManager TxManager, log Logger) (int, error) {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`,
	); err != nil {
		return 0, fmt.Errorf("%w: create schema_migrations: %v", ErrMigration, err)
	}

	names, err := List()
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, name := range names {
		done, err := isApplied(ctx, db, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		body, err := files.ReadFile("sql/" + name)
		if err != nil {
			return applied, fmt.Errorf("%w: read %s: %v", ErrMigration, name, err)
		}

		err = txManager.Do(ctx, func(txCtx context.Context) error {
			executor := dbmetrics.GetExecutor(txCtx, db)
			if _, err := executor.ExecContext(txCtx, string(body)); err != nil {
				return fmt.Errorf("%w: apply %s: %v", ErrMigration, name, err)
			}

			query, args, err := psqlbuilder.Insert("schema_migrations").
				Columns("version").
				Values(name).
				ToSql()
			if err != nil {
				return fmt.Errorf("%w: build insert for %s: %v", ErrMigration, name, err)
			}
			if _, err := executor.ExecContext(txCtx, query, args...); err != nil {
				return fmt.Errorf("%w: record %s: %v", ErrMigration, name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}

		log.Info("Migration applied: %s", name)
		applied++
	}

	return applied, nil
}

// List возвращает имена встроенных миграций в порядке применения
func List() ([]string, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("%w: read embedded dir: %v", ErrMigration, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return names, nil
}

func isApplied(ctx context.Context, db dbmetrics.DBExecutor, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: check %s: %v", ErrMigration, name, err)
	}
	return exists, nil
}
