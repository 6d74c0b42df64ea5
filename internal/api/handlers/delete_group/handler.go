package delete_group

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidGroupID = "некорректный ID группы"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgNotFound       = "группа столов не найдена"
)

type Handler struct {
	service GroupService
	logger  Logger
}

func NewHandler(service GroupService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/groups/{groupId}
// Возвращает снимок группы до удаления
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.PathInt64(r, "groupId")
	if err != nil {
		h.logger.Warn("DELETE /groups/{id} - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /groups/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	snapshot, err := h.service.DeleteGroup(r.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGroupNotFound):
			h.logger.Warn("DELETE /groups/{id} - Group not found: group_id=%d", groupID)
			handlers.RespondCodedError(w, domain.ErrGroupNotFound, msgNotFound)

		default:
			h.logger.Error("DELETE /groups/{id} - Failed to delete group: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /groups/{id} - Group deleted: group_id=%d, user_id=%d", groupID, userID)
	handlers.RespondJSON(w, http.StatusOK, snapshot)
}
