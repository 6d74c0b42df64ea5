package groups

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// GroupRepository интерфейс репозитория групп столов
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *domain.GroupTable) (*domain.GroupTable, error)
	CreateSequence(ctx context.Context, groupID int64, tableIDs []int64) error
	CreatePossibility(ctx context.Context, groupID int64, index int, tableIDs []int64) (*domain.GroupPossibility, error)
	GetByID(ctx context.Context, id int64) (*domain.GroupTable, error)
	ListBySeatingType(ctx context.Context, seatingTypeID int64) ([]*domain.GroupTable, error)
	Update(ctx context.Context, group *domain.GroupTable) error
	DeleteLinksByGroup(ctx context.Context, groupID int64) error
	DeletePossibilitiesByGroup(ctx context.Context, groupID int64) error
	DeleteSequence(ctx context.Context, groupID int64) error
	SoftDelete(ctx context.Context, groupID int64) error
	DeletePossibility(ctx context.Context, groupID, possibilityID int64) error
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	FindByIDsAndSeatingType(ctx context.Context, ids []int64, seatingTypeID int64) ([]*domain.OutletTable, error)
}

// AuditService интерфейс журнала изменений
type AuditService interface {
	Diff(before, after interface{}) (domain.ContentChange, error)
	Write(ctx context.Context, record *domain.AuditRecord) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
