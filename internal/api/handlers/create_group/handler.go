package create_group

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/internal/service/groups/models"
)

const (
	msgInvalidSeatingTypeID = "некорректный ID типа рассадки"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidInput         = "некорректные параметры группы: имя, minPax >= 1, maxPax >= minPax, не меньше двух разных столов"
	msgInvalidTable         = "стол не относится к типу рассадки"
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

// Handle POST /api/v1/seating-types/{seatingTypeId}/groups
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seatingTypeID, err := handlers.PathInt64(r, "seatingTypeId")
	if err != nil {
		h.logger.Warn("POST /seating-types/{id}/groups - Invalid seating type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeatingTypeID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /seating-types/{id}/groups - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateGroupRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /seating-types/{id}/groups - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.SeatingTypeID = seatingTypeID
	req.UserID = userID

	group, err := h.service.CreateGroup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /seating-types/{id}/groups - Invalid input: %v", err)
			handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidInput)

		case errors.Is(err, domain.ErrInvalidTable):
			h.logger.Warn("POST /seating-types/{id}/groups - Invalid table: seating_type_id=%d, tables=%v", seatingTypeID, req.TableIDs)
			handlers.RespondCodedError(w, domain.ErrInvalidTable, msgInvalidTable)

		default:
			h.logger.Error("POST /seating-types/{id}/groups - Failed to create group: seating_type_id=%d, error=%v", seatingTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /seating-types/{id}/groups - Group created: group_id=%d, possibilities=%d, user_id=%d",
		group.ID, len(group.Possibilities), userID)
	handlers.RespondJSON(w, http.StatusCreated, group)
}
