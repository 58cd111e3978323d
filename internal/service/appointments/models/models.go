package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// ListRequest запрос на получение записей клиента
type ListRequest struct {
	ClientID int64      `json:"clientId"`
	Status   *string    `json:"status,omitempty"` // Фильтр по статусу (опционально)
	From     *time.Time `json:"from,omitempty"`   // Начало периода по времени начала (опционально)
	To       *time.Time `json:"to,omitempty"`     // Конец периода по времени начала (опционально)
}

// ListAllRequest запрос на получение страницы всех записей
type ListAllRequest struct {
	ProfessionalID *int64     `json:"professionalId,omitempty"` // Фильтр по специалисту (опционально)
	Status         *string    `json:"status,omitempty"`
	From           *time.Time `json:"from,omitempty"`
	To             *time.Time `json:"to,omitempty"`
	Limit          int        `json:"limit,omitempty"` // 0 - размер страницы по умолчанию
	Offset         int        `json:"offset,omitempty"`
}

// Response модели

// AppointmentResponse запись с данными специалиста и услуг
type AppointmentResponse struct {
	ID                    int64         `json:"id"`
	ClientID              int64         `json:"clientId"`
	ProfessionalID        int64         `json:"professionalId"`
	ProfessionalName      string        `json:"professionalName,omitempty"`
	ProfessionalSpecialty string        `json:"professionalSpecialty,omitempty"`
	ScheduledStart        time.Time     `json:"scheduledStart"`
	ScheduledEnd          time.Time     `json:"scheduledEnd"`
	Status                string        `json:"status"`
	TotalValue            string        `json:"totalValue"`                // "60.00"
	CancellationFee       *string       `json:"cancellationFee,omitempty"` // Только для отмененных
	Notes                 *string       `json:"notes,omitempty"`
	Services              []ServiceItem `json:"services"`

	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ServiceItem услуга в составе записи
type ServiceItem struct {
	ServiceID       int64     `json:"serviceId"`
	Name            string    `json:"name,omitempty"`
	Position        int       `json:"position"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           string    `json:"price"` // Цена на момент записи
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// services и professional могут быть nil, тогда названия не заполняются
func FromDomainAppointment(
	a *domain.Appointment,
	professional *domain.Professional,
	services map[int64]*domain.Service,
) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:             a.ID,
		ClientID:       a.ClientID,
		ProfessionalID: a.ProfessionalID,
		ScheduledStart: a.ScheduledStart,
		ScheduledEnd:   a.ScheduledEnd,
		Status:         string(a.Status),
		TotalValue:     a.TotalValue.StringFixed(2),
		Notes:          a.Notes,
		Services:       make([]ServiceItem, len(a.Segments)),
		CancelledAt:    a.CancelledAt,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	if professional != nil {
		resp.ProfessionalName = professional.Name
		resp.ProfessionalSpecialty = professional.Specialty
	}

	if a.Status == domain.StatusCancelled {
		fee := a.CancellationFee.StringFixed(2)
		resp.CancellationFee = &fee
	}

	for i, s := range a.Segments {
		item := ServiceItem{
			ServiceID:       s.ServiceID,
			Position:        s.Position,
			Start:           s.Start,
			End:             s.End,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price.StringFixed(2),
		}
		if svc, ok := services[s.ServiceID]; ok {
			item.Name = svc.Name
		}
		resp.Services[i] = item
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !domain.IsValidStatus(s) {
		return "", domain.ErrInvalidInput.WithField("status").WithMessage("unknown status %q", status)
	}
	return s, nil
}
