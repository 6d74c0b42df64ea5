package create_group

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

type GroupService interface {
	CreateGroup(ctx context.Context, req *models.CreateGroupRequest) (*models.GroupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
