package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListActiveByProfessional получает неотмененные записи специалиста в окне [From, To)
	ListActiveByProfessional(ctx context.Context, filter domain.ProfessionalScheduleFilter) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс справочника специалистов
type CatalogRepository interface {
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
}

// SlotGenerator генератор сетки слотов дня
type SlotGenerator interface {
	StartOfDay(date time.Time) time.Time
	GenerateSlots(date time.Time) []domain.TimeSlot
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
