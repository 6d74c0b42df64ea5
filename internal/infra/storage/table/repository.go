package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableService/pkg/psqlbuilder"
)

const tableName = "outlet_tables"

var columns = []string{
	"id",
	"outlet_id",
	"outlet_seating_type_id",
	"name",
	"min_pax",
	"max_pax",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий столов заведения (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория столов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindByID получает стол по ID
func (r *Repository) FindByID(ctx context.Context, id int64) (*domain.OutletTable, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindByID - build select query: %v", ErrBuildQuery, err)
	}

	table, err := scanTable(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindByID - scan table: %w", ErrScanRow, err)
	}

	return table, nil
}

// FindByIDsAndSeatingType получает столы из списка, принадлежащие типу рассадки
// Столы другого типа рассадки в результат не попадают, вызывающий сравнивает размер результата со входом
func (r *Repository) FindByIDsAndSeatingType(ctx context.Context, ids []int64, seatingTypeID int64) ([]*domain.OutletTable, error) {
	return r.findByIDs(ctx, "FindByIDsAndSeatingType", ids, squirrel.Eq{"outlet_seating_type_id": seatingTypeID})
}

// FindByIDsAndOutlet получает столы из списка, принадлежащие заведению
func (r *Repository) FindByIDsAndOutlet(ctx context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error) {
	return r.findByIDs(ctx, "FindByIDsAndOutlet", ids, squirrel.Eq{"outlet_id": outletID})
}

func (r *Repository) findByIDs(ctx context.Context, op string, ids []int64, scope squirrel.Eq) ([]*domain.OutletTable, error) {
	if len(ids) == 0 {
		return []*domain.OutletTable{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": ids}).
		Where(scope).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	tables := make([]*domain.OutletTable, 0, len(ids))
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return tables, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTable(row rowScanner) (*domain.OutletTable, error) {
	var table domain.OutletTable
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&table.ID,
		&table.OutletID,
		&table.OutletSeatingTypeID,
		&table.Name,
		&table.MinPax,
		&table.MaxPax,
		&table.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	table.CreatedAt = createdAt.Time
	table.UpdatedAt = updatedAt.Time

	return &table, nil
}
