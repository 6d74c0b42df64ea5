package delete_possibility

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidGroupID       = "некорректный ID группы"
	msgInvalidPossibilityID = "некорректный ID комбинации"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgGroupNotFound        = "группа столов не найдена"
	msgPossibilityNotFound  = "комбинация не найдена в группе"
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

// Handle DELETE /api/v1/groups/{groupId}/possibilities/{possibilityId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.PathInt64(r, "groupId")
	if err != nil {
		h.logger.Warn("DELETE /groups/{id}/possibilities/{pid} - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	possibilityID, err := handlers.PathInt64(r, "possibilityId")
	if err != nil {
		h.logger.Warn("DELETE /groups/{id}/possibilities/{pid} - Invalid possibility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPossibilityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /groups/{id}/possibilities/{pid} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	group, err := h.service.DeletePossibility(r.Context(), groupID, possibilityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGroupNotFound):
			h.logger.Warn("DELETE /groups/{id}/possibilities/{pid} - Group not found: group_id=%d", groupID)
			handlers.RespondCodedError(w, domain.ErrGroupNotFound, msgGroupNotFound)

		case errors.Is(err, domain.ErrPossibilityNotFound):
			h.logger.Warn("DELETE /groups/{id}/possibilities/{pid} - Possibility not found: group_id=%d, possibility_id=%d", groupID, possibilityID)
			handlers.RespondCodedError(w, domain.ErrPossibilityNotFound, msgPossibilityNotFound)

		default:
			h.logger.Error("DELETE /groups/{id}/possibilities/{pid} - Failed to delete possibility: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /groups/{id}/possibilities/{pid} - Possibility deleted: group_id=%d, possibility_id=%d, user_id=%d",
		groupID, possibilityID, userID)
	handlers.RespondJSON(w, http.StatusOK, group)
}
