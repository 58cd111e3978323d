package list_appointments

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidPeriod         = "некорректный период, ожидается RFC3339"
	msgInvalidPage           = "некорректные limit или offset"
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

// Handle GET /api/v1/appointments
// Query params: professionalId, status, from, to, limit, offset (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	serviceReq := &models.ListAllRequest{}

	if v := query.Get("professionalId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.logger.Warn("GET /appointments - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		serviceReq.ProfessionalID = ptr.Ptr(id)
	}

	if status := query.Get("status"); status != "" {
		serviceReq.Status = ptr.Ptr(status)
	}

	var err error
	if serviceReq.From, err = handlers.ParseOptionalTime(query.Get("from")); err != nil {
		h.logger.Warn("GET /appointments - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	if serviceReq.To, err = handlers.ParseOptionalTime(query.Get("to")); err != nil {
		h.logger.Warn("GET /appointments - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	if serviceReq.Limit, err = handlers.ParseOptionalInt(query.Get("limit")); err != nil {
		h.logger.Warn("GET /appointments - Invalid limit: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}
	if serviceReq.Offset, err = handlers.ParseOptionalInt(query.Get("offset")); err != nil {
		h.logger.Warn("GET /appointments - Invalid offset: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		h.logger.Warn("GET /appointments - Failed to list appointments: error=%v", err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /appointments - Appointments retrieved successfully: count=%d", len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
