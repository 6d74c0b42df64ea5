package update_group

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

const (
	msgInvalidGroupID     = "некорректный ID группы"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры группы: имя, minPax >= 1, maxPax >= minPax"
	msgNotFound           = "группа столов не найдена"
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

// Handle PUT /api/v1/groups/{groupId}
// Меняет только скалярные поля, комбинации не пересоздаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.PathInt64(r, "groupId")
	if err != nil {
		h.logger.Warn("PUT /groups/{id} - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /groups/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateGroupRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /groups/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.GroupID = groupID
	req.UserID = userID

	group, err := h.service.UpdateGroup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PUT /groups/{id} - Invalid input: %v", err)
			handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidInput)

		case errors.Is(err, domain.ErrGroupNotFound):
			h.logger.Warn("PUT /groups/{id} - Group not found: group_id=%d", groupID)
			handlers.RespondCodedError(w, domain.ErrGroupNotFound, msgNotFound)

		default:
			h.logger.Error("PUT /groups/{id} - Failed to update group: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /groups/{id} - Group updated: group_id=%d, user_id=%d", groupID, userID)
	handlers.RespondJSON(w, http.StatusOK, group)
}
