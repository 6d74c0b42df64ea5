package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TableService/pkg/psqlbuilder"
)

// Repository репозиторий журнала аудита
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Write сохраняет запись аудита
// Внутри транзакции запись фиксируется вместе с изменением, которое она описывает
func (r *Repository) Write(ctx context.Context, record *domain.AuditRecord) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	change, err := json.Marshal(record.Change)
	if err != nil {
		return fmt.Errorf("%w: Write - entity=%s id=%d: %v", ErrMarshalChange, record.Entity, record.EntityID, err)
	}

	query, args, err := psqlbuilder.Insert("audit_logs").
		Columns("correlation_id", "entity", "entity_id", "action", "user_id", "content_change").
		Values(record.CorrelationID, record.Entity, record.EntityID, record.Action, record.UserID, string(change)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Write - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&record.ID, &createdAt); err != nil {
		return fmt.Errorf("%w: Write - execute insert: %w", ErrExecQuery, err)
	}
	record.CreatedAt = createdAt.Time

	return nil
}
