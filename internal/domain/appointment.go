package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment is one booking request of a client with a professional.
// A chained booking of several services is a single appointment whose
// segments follow each other without gaps, in the order the client gave.
type Appointment struct {
	ID             int64
	ClientID       int64
	ProfessionalID int64
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Status         AppointmentStatus
	Segments       []Segment

	TotalValue      decimal.Decimal
	CancellationFee decimal.Decimal
	Notes           *string

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Segment is the slice of an appointment taken by one service
type Segment struct {
	Position        int
	ServiceID       int64
	Start           time.Time
	End             time.Time
	DurationMinutes int
	Price           decimal.Decimal
}

// Interval returns the occupied [start, end) span of the appointment
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.ScheduledStart, End: a.ScheduledEnd}
}

// ServiceIDs returns the ids of the chained services in booking order
func (a *Appointment) ServiceIDs() []int64 {
	ids := make([]int64, len(a.Segments))
	for i, s := range a.Segments {
		ids[i] = s.ServiceID
	}
	return ids
}

// IsActive returns true if the appointment still occupies its time
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsTerminal returns true if no further changes are allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted
}

// IsValidStatus reports whether s is a known appointment status
func IsValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// ClientAppointmentsFilter фильтр для получения записей клиента
type ClientAppointmentsFilter struct {
	ClientID int64              // Обязательный параметр
	Status   *AppointmentStatus // Фильтр по статусу (опционально)
	From     *time.Time         // Начало периода по времени начала записи (включительно)
	To       *time.Time         // Конец периода по времени начала записи (включительно)
}

// AppointmentsFilter фильтр общего списка записей
type AppointmentsFilter struct {
	ProfessionalID *int64             // Фильтр по специалисту (опционально)
	Status         *AppointmentStatus // Фильтр по статусу (опционально)
	From           *time.Time         // Начало периода по времени начала записи (включительно)
	To             *time.Time         // Конец периода по времени начала записи (включительно)
	Limit          int                // Размер страницы, 0 - без ограничения
	Offset         int
}

// ProfessionalScheduleFilter фильтр для получения занятости специалиста
type ProfessionalScheduleFilter struct {
	ProfessionalID       int64
	From                 time.Time // Начало окна (включительно)
	To                   time.Time // Конец окна (не включительно)
	ExcludeAppointmentID int64     // Запись, которую нужно исключить (при редактировании)
}
