package cancel_appointment

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	clientID := req.ClientID

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID))
	if err != nil {
		if handlers.StatusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel appointment: appointment_id=%d, client_id=%d, error=%v",
				appointmentID, clientID, err)
		} else {
			h.logger.Warn("PATCH /appointments/{id}/cancel - Rejected: appointment_id=%d, client_id=%d, reason=%v",
				appointmentID, clientID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: appointment_id=%d, client_id=%d, fee=%s",
		appointmentID, clientID, result.Fee.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
