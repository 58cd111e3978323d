package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStart       = "некорректное время начала, ожидается RFC3339"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid scheduledStart=%q: %v", req.ScheduledStart, err)
		handlers.RespondBadRequest(w, msgInvalidStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.StatusOf(err) >= http.StatusInternalServerError {
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%d, professional_id=%d, error=%v",
				req.ClientID, req.ProfessionalID, err)
		} else {
			h.logger.Warn("POST /appointments - Rejected: client_id=%d, professional_id=%d, reason=%v",
				req.ClientID, req.ProfessionalID, err)
		}
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, client_id=%d, professional_id=%d",
		result.ID, req.ClientID, req.ProfessionalID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
