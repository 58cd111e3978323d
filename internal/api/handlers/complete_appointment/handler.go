package complete_appointment

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/complete - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Complete(r.Context(), appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/complete - Failed to complete appointment: appointment_id=%d, error=%v",
			appointmentID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/complete - Appointment completed: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
