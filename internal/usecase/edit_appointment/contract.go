package edit_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	LockProfessional(ctx context.Context, professionalID int64) error
	ListActiveByProfessional(ctx context.Context, filter domain.ProfessionalScheduleFilter) ([]*domain.Appointment, error)
	UpdateSchedule(ctx context.Context, appointment *domain.Appointment) error
}

// CatalogRepository интерфейс справочников специалистов и услуг
type CatalogRepository interface {
	GetProfessional(ctx context.Context, id int64) (*domain.Professional, error)
	GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Service, error)
}

// BusinessHours политика рабочих часов
type BusinessHours interface {
	InZone(t time.Time) time.Time
	IsOpen(t time.Time) bool
	FitsSegments(segments []domain.Segment) bool
}

// DurationResolver раскладывает цепочку услуг по времени
type DurationResolver interface {
	Chain(start time.Time, services []*domain.Service) ([]domain.Segment, time.Time)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для учета операций с записями
type MetricsRecorder interface {
	ObserveBooking(operation, outcome string)
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
