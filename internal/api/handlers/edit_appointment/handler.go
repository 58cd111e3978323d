package edit_appointment

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStart         = "некорректное время начала, ожидается RFC3339"
)

type Handler struct {
	useCase EditAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase EditAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req EditAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id} - Invalid scheduledStart: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.StatusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("PATCH /appointments/{id} - Failed to edit appointment: appointment_id=%d, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PATCH /appointments/{id} - Rejected: appointment_id=%d, reason=%v", appointmentID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id} - Appointment updated: appointment_id=%d, professional_id=%d",
		appointmentID, result.ProfessionalID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
