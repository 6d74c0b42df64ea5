package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableService/pkg/pgerrors"
	"github.com/m04kA/SMC-TableService/pkg/psqlbuilder"
)

const tableName = "table_bookings"

var columns = []string{
	"id",
	"invoice_id",
	"table_id",
	"outlet_id",
	"booking_start_time",
	"booking_end_time",
	"status",
	"seat_start_time",
	"seat_end_time",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями столов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает бронирование стола
// Если в контексте есть транзакция, использует её.
// Пересечение с уже существующим активным бронированием на том же столе отклоняется
// EXCLUDE ограничением в БД и возвращается как ErrTimeslotTaken
func (r *Repository) Create(ctx context.Context, booking *domain.TableBooking) (*domain.TableBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"invoice_id",
			"table_id",
			"outlet_id",
			"booking_start_time",
			"booking_end_time",
			"status",
			"seat_start_time",
			"seat_end_time",
			"is_active",
		).
		Values(
			booking.InvoiceID,
			booking.TableID,
			booking.OutletID,
			booking.BookingStartTime,
			booking.BookingEndTime,
			booking.Status,
			booking.SeatStartTime,
			booking.SeatEndTime,
			true,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if pgerrors.IsExclusionViolation(err) || pgerrors.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Create - table=%d: %v", ErrTimeslotTaken, booking.TableID, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.IsActive = true
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает активное бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TableBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id, "is_active": true})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByInvoiceID получает все активные бронирования столов одного инвойса
func (r *Repository) GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*domain.TableBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"invoice_id": invoiceID, "is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInvoiceID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInvoiceID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListMatching получает бронирования, которые могут конфликтовать с окном filter.Window
//
// Условие пересечения существующего окна [s, e) с кандидатом [S, E):
//   - S <= s < E   (начинается внутри)
//   - S < e <= E   (заканчивается внутри)
//   - s < S и e > E (полностью накрывает кандидата)
//
// Касание границ (e == S или s == E) пересечением не считается.
// Внутри транзакции строки блокируются (FOR UPDATE).
func (r *Repository) ListMatching(ctx context.Context, filter domain.BookingsFilter) ([]*domain.TableBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildMatchingQuery(filter, dbmetrics.IsInTransaction(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: ListMatching - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: ListMatching - lock rows: %v", ErrTimeslotTaken, err)
		}
		return nil, fmt.Errorf("%w: ListMatching - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func buildMatchingQuery(filter domain.BookingsFilter, forUpdate bool) (string, []interface{}, error) {
	start, end := filter.Window.Start(), filter.Window.End()

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"outlet_id": filter.OutletID,
			"table_id":  filter.TableIDs,
			"is_active": true,
		}).
		Where(squirrel.Or{
			squirrel.And{
				squirrel.GtOrEq{"booking_start_time": start},
				squirrel.Lt{"booking_start_time": end},
			},
			squirrel.And{
				squirrel.Gt{"booking_end_time": start},
				squirrel.LtOrEq{"booking_end_time": end},
			},
			squirrel.And{
				squirrel.Lt{"booking_start_time": start},
				squirrel.Gt{"booking_end_time": end},
			},
		})

	if !filter.EndsNotBefore.IsZero() {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_end_time": filter.EndsNotBefore})
	}

	if len(filter.ExcludeStatus) > 0 {
		statuses := make([]string, len(filter.ExcludeStatus))
		for i, s := range filter.ExcludeStatus {
			statuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statuses})
	}

	if filter.ExcludeBooking != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeBooking})
	}

	selectBuilder = selectBuilder.OrderBy("booking_start_time ASC", "id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder.ToSql()
}

// ListByTableInRange получает активные бронирования стола, чьё окно пересекается с диапазоном отображения
// Статус не фильтруется: на схеме зала видны и завершённые бронирования
func (r *Repository) ListByTableInRange(ctx context.Context, tableID int64, displayRange domain.TimeWindow) ([]*domain.TableBooking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"table_id": tableID, "is_active": true}).
		Where(squirrel.Lt{"booking_start_time": displayRange.End()}).
		Where(squirrel.Gt{"booking_end_time": displayRange.Start()}).
		OrderBy("booking_start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTableInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByTableInRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateTable переносит бронирование на другой стол, окно не меняется
func (r *Repository) UpdateTable(ctx context.Context, id int64, tableID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("table_id", tableID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateTable - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsExclusionViolation(err) || pgerrors.IsSerializationFailure(err) {
			return fmt.Errorf("%w: UpdateTable - booking=%d table=%d: %v", ErrTimeslotTaken, id, tableID, err)
		}
		return fmt.Errorf("%w: UpdateTable - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTable - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateStatusByInvoice применяет переход статуса ко всем бронированиям инвойса
// Возвращает количество обновлённых строк
func (r *Repository) UpdateStatusByInvoice(ctx context.Context, invoiceID int64, update domain.StatusUpdate) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableName).
		Set("status", update.Status).
		Set("updated_at", squirrel.Expr("NOW()"))

	if update.SetSeatStart {
		updateBuilder = updateBuilder.Set("seat_start_time", update.SeatStartTime)
	}
	if update.SetSeatEnd {
		updateBuilder = updateBuilder.Set("seat_end_time", update.SeatEndTime)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"invoice_id": invoiceID, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateStatusByInvoice - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		// Возврат в блокирующий статус может пересечься с чужим бронированием
		if pgerrors.IsExclusionViolation(err) {
			return 0, fmt.Errorf("%w: UpdateStatusByInvoice - invoice=%d: %v", ErrTimeslotTaken, invoiceID, err)
		}
		return 0, fmt.Errorf("%w: UpdateStatusByInvoice - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: UpdateStatusByInvoice - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return 0, ErrBookingNotFound
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.TableBooking, error) {
	var booking domain.TableBooking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.InvoiceID,
		&booking.TableID,
		&booking.OutletID,
		&booking.BookingStartTime,
		&booking.BookingEndTime,
		&booking.Status,
		&booking.SeatStartTime,
		&booking.SeatEndTime,
		&booking.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.TableBooking, error) {
	bookings := make([]*domain.TableBooking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
