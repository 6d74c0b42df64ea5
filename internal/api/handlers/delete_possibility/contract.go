package delete_possibility

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

type GroupService interface {
	DeletePossibility(ctx context.Context, groupID, possibilityID, userID int64) (*models.GroupResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
