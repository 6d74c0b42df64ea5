package get_group

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidGroupID = "некорректный ID группы"
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

// Handle GET /api/v1/groups/{groupId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.PathInt64(r, "groupId")
	if err != nil {
		h.logger.Warn("GET /groups/{id} - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	group, err := h.service.GetGroup(r.Context(), groupID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrGroupNotFound):
			h.logger.Warn("GET /groups/{id} - Group not found: group_id=%d", groupID)
			handlers.RespondCodedError(w, domain.ErrGroupNotFound, msgNotFound)

		default:
			h.logger.Error("GET /groups/{id} - Failed to get group: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, group)
}
