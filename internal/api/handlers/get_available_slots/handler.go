package get_available_slots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgMissingDate           = "дата обязательна"
	msgInvalidDate           = "некорректный формат даты, ожидается YYYY-MM-DD"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, err := strconv.ParseInt(mux.Vars(r)["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/available-slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /professionals/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(professionalID, dateStr)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.StatusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("GET /professionals/{id}/available-slots - Failed to get slots: professional_id=%d, error=%v",
				professionalID, err)
		} else {
			h.logger.Warn("GET /professionals/{id}/available-slots - Rejected: professional_id=%d, reason=%v",
				professionalID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /professionals/{id}/available-slots - Slots retrieved successfully: professional_id=%d, slots_count=%d",
		professionalID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
