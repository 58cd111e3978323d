package cancel_appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, fee decimal.Decimal, at time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для учета отмен и штрафов
type MetricsRecorder interface {
	ObserveBooking(operation, outcome string)
	ObserveCancellationFee(fee float64, free bool)
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
