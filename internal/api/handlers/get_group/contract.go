package get_group

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

type GroupService interface {
	GetGroup(ctx context.Context, groupID int64) (*models.GroupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
