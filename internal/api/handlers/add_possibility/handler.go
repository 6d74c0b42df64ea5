package add_possibility

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
	msgInvalidInput       = "комбинация должна содержать не меньше двух разных столов"
	msgNotFound           = "группа столов не найдена"
	msgInvalidTable       = "стол не входит в последовательность группы"
	msgDuplicate          = "комбинация с такими столами уже существует"
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

// Handle POST /api/v1/groups/{groupId}/possibilities
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	groupID, err := handlers.PathInt64(r, "groupId")
	if err != nil {
		h.logger.Warn("POST /groups/{id}/possibilities - Invalid group ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidGroupID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /groups/{id}/possibilities - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.AddPossibilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /groups/{id}/possibilities - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.GroupID = groupID
	req.UserID = userID

	group, err := h.service.AddPossibility(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /groups/{id}/possibilities - Invalid input: %v", err)
			handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidInput)

		case errors.Is(err, domain.ErrGroupNotFound):
			h.logger.Warn("POST /groups/{id}/possibilities - Group not found: group_id=%d", groupID)
			handlers.RespondCodedError(w, domain.ErrGroupNotFound, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTable):
			h.logger.Warn("POST /groups/{id}/possibilities - Invalid table: group_id=%d, tables=%v", groupID, req.TableIDs)
			handlers.RespondCodedError(w, domain.ErrInvalidTable, msgInvalidTable)

		case errors.Is(err, domain.ErrDuplicatePossibility):
			h.logger.Warn("POST /groups/{id}/possibilities - Duplicate: group_id=%d, tables=%v", groupID, req.TableIDs)
			handlers.RespondCodedError(w, domain.ErrDuplicatePossibility, msgDuplicate)

		default:
			h.logger.Error("POST /groups/{id}/possibilities - Failed to add possibility: group_id=%d, error=%v", groupID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /groups/{id}/possibilities - Possibility added: group_id=%d, tables=%v, user_id=%d", groupID, req.TableIDs, userID)
	handlers.RespondJSON(w, http.StatusCreated, group)
}
