package audit

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// Repository интерфейс хранилища журнала аудита
type Repository interface {
	Write(ctx context.Context, record *domain.AuditRecord) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
