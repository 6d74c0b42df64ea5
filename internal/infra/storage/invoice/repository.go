package invoice

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

const tableName = "invoices"

// Repository репозиторий инвойсов
// Инвойсы создаёт сторона оформления заказа, здесь они только читаются и получают зеркальный статус
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория инвойсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает инвойс по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"outlet_id",
		"status",
		"is_valid_setup_intent",
		"payment_customer_id",
		"payment_method_id",
		"setup_charge_id",
		"total_paid_amount",
		"no_show_charge_amount",
		"currency",
		"confirmed_at",
		"created_at",
		"updated_at",
	).
		From(tableName).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var inv domain.Invoice
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&inv.OutletID,
		&inv.Status,
		&inv.IsValidSetupIntent,
		&inv.PaymentCustomerID,
		&inv.PaymentMethodID,
		&inv.SetupChargeID,
		&inv.TotalPaidAmount,
		&inv.NoShowChargeAmount,
		&inv.Currency,
		&inv.ConfirmedAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan invoice: %w", ErrScanRow, err)
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	return &inv, nil
}

// Update записывает в инвойс непустые поля update
func (r *Repository) Update(ctx context.Context, id int64, update domain.InvoiceUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(tableName).
		Set("updated_at", squirrel.Expr("NOW()"))

	if update.Status != nil {
		updateBuilder = updateBuilder.Set("status", *update.Status)
	}
	if update.IsValidSetupIntent != nil {
		updateBuilder = updateBuilder.Set("is_valid_setup_intent", *update.IsValidSetupIntent)
	}
	if update.TotalPaidAmount != nil {
		updateBuilder = updateBuilder.Set("total_paid_amount", *update.TotalPaidAmount)
	}
	if update.ConfirmedAt != nil {
		updateBuilder = updateBuilder.Set("confirmed_at", *update.ConfirmedAt)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}
