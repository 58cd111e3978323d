package common

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentResult запись в ответах use case создания и изменения
type AppointmentResult struct {
	ID             int64
	ClientID       int64
	ProfessionalID int64
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Status         string
	TotalValue     decimal.Decimal
	Notes          *string
	Services       []ServiceItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ServiceItem услуга в составе записи
type ServiceItem struct {
	ServiceID       int64
	Position        int
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Price           decimal.Decimal
}

// FromAppointment конвертирует запись в результат use case
func FromAppointment(a *domain.Appointment) *AppointmentResult {
	items := make([]ServiceItem, len(a.Segments))
	for i, s := range a.Segments {
		items[i] = ServiceItem{
			ServiceID:       s.ServiceID,
			Position:        s.Position,
			Start:           s.Start,
			End:             s.End,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		}
	}

	return &AppointmentResult{
		ID:             a.ID,
		ClientID:       a.ClientID,
		ProfessionalID: a.ProfessionalID,
		ScheduledStart: a.ScheduledStart,
		ScheduledEnd:   a.ScheduledEnd,
		Status:         string(a.Status),
		TotalValue:     a.TotalValue,
		Notes:          a.Notes,
		Services:       items,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
