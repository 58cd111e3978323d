package get_client_appointments

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	msgInvalidClientID = "некорректный ID клиента"
	msgInvalidPeriod   = "некорректный период, ожидается RFC3339"
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

// Handle GET /api/v1/clients/{clientId}/appointments
// Query params: status, from, to (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(mux.Vars(r)["clientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /clients/{clientId}/appointments - Invalid client ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClientID)
		return
	}

	query := r.URL.Query()
	serviceReq := &models.ListRequest{ClientID: clientID}

	if status := query.Get("status"); status != "" {
		serviceReq.Status = ptr.Ptr(status)
	}

	if serviceReq.From, err = handlers.ParseOptionalTime(query.Get("from")); err != nil {
		h.logger.Warn("GET /clients/{clientId}/appointments - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}
	if serviceReq.To, err = handlers.ParseOptionalTime(query.Get("to")); err != nil {
		h.logger.Warn("GET /clients/{clientId}/appointments - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListForClient(r.Context(), serviceReq)
	if err != nil {
		h.logger.Warn("GET /clients/{clientId}/appointments - Failed to get appointments: client_id=%d, error=%v",
			clientID, err)
		handlers.RespondDomainError(w, err)
		return
	}

	h.logger.Info("GET /clients/{clientId}/appointments - Appointments retrieved successfully: client_id=%d, count=%d",
		clientID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
