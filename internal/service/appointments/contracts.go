package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListByClient(ctx context.Context, filter domain.ClientAppointmentsFilter) ([]*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Complete(ctx context.Context, id int64, at time.Time) error
}

// CatalogRepository интерфейс справочников для обогащения записей
type CatalogRepository interface {
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Service, error)
	GetProfessionalsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Professional, error)
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
