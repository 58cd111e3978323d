package edit_appointment

import (
	"time"

	editAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/edit_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// EditAppointmentRequest HTTP request model
// Незаданные поля остаются прежними
type EditAppointmentRequest struct {
	ScheduledStart *string `json:"scheduledStart,omitempty"`
	ProfessionalID *int64  `json:"professionalId,omitempty"`
	ServiceIDs     []int64 `json:"serviceIds,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID             int64         `json:"id"`
	ClientID       int64         `json:"clientId"`
	ProfessionalID int64         `json:"professionalId"`
	ScheduledStart string        `json:"scheduledStart"`
	ScheduledEnd   string        `json:"scheduledEnd"`
	Status         string        `json:"status"`
	TotalValue     string        `json:"totalValue"`
	Notes          *string       `json:"notes,omitempty"`
	Services       []ServiceItem `json:"services"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt"`
}

// ServiceItem услуга в составе записи
type ServiceItem struct {
	ServiceID       int64  `json:"serviceId"`
	Position        int    `json:"position"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           string `json:"price"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EditAppointmentRequest) ToUseCaseRequest(appointmentID int64) (*editAppointment.Request, error) {
	req := &editAppointment.Request{
		AppointmentID:  appointmentID,
		ProfessionalID: r.ProfessionalID,
		ServiceIDs:     r.ServiceIDs,
	}

	if r.ScheduledStart != nil {
		start, err := time.Parse(time.RFC3339, *r.ScheduledStart)
		if err != nil {
			return nil, err
		}
		req.ScheduledStart = ptr.Ptr(start)
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *editAppointment.Response) *AppointmentResponse {
	services := make([]ServiceItem, len(resp.Services))
	for i, s := range resp.Services {
		services[i] = ServiceItem{
			ServiceID:       s.ServiceID,
			Position:        s.Position,
			Start:           s.Start.Format(time.RFC3339),
			End:             s.End.Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price.StringFixed(2),
		}
	}

	return &AppointmentResponse{
		ID:             resp.ID,
		ClientID:       resp.ClientID,
		ProfessionalID: resp.ProfessionalID,
		ScheduledStart: resp.ScheduledStart.Format(time.RFC3339),
		ScheduledEnd:   resp.ScheduledEnd.Format(time.RFC3339),
		Status:         resp.Status,
		TotalValue:     resp.TotalValue.StringFixed(2),
		Notes:          resp.Notes,
		Services:       services,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      resp.UpdatedAt.Format(time.RFC3339),
	}
}
