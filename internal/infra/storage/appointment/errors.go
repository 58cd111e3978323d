package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrStatusChanged возвращается, когда статус записи изменился до обновления
	ErrStatusChanged = errors.New("appointment.repository: appointment status changed")

	// ErrTimeConflict возвращается, когда сработало ограничение на пересечение записей специалиста
	ErrTimeConflict = errors.New("appointment.repository: time conflict")

	// ErrSerialization возвращается при конфликте сериализации или взаимной блокировке
	ErrSerialization = errors.New("appointment.repository: serialization failure")

	// ErrCanceled возвращается, когда запрос прерван по таймауту или отмене контекста
	ErrCanceled = errors.New("appointment.repository: query canceled")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)

// Коды ошибок PostgreSQL
const (
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
)

// wrapExecError оборачивает ошибку выполнения запроса, распознавая ошибки конкурентного доступа
func wrapExecError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %w", ErrCanceled, op, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %s: %w", ErrTimeConflict, op, err)
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %s: %w", ErrSerialization, op, err)
		case pgQueryCanceled:
			return fmt.Errorf("%w: %s: %w", ErrCanceled, op, err)
		}
	}

	return fmt.Errorf("%w: %s: %w", ErrExecQuery, op, err)
}

// DomainError переводит ошибку хранилища в ошибку бизнес-логики
// Ошибки бизнес-логики, возвращенные внутри транзакции, не меняются
func DomainError(err error) error {
	if err == nil {
		return nil
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		return err
	}

	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		return domain.ErrAppointmentNotFound
	case errors.Is(err, ErrTimeConflict):
		return fmt.Errorf("%w: %v", domain.ErrTimeConflict, err)
	case errors.Is(err, ErrSerialization), errors.Is(err, ErrCanceled),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	// Ошибки фиксации транзакции приходят из txmanager без классификации
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgExclusionViolation:
			return fmt.Errorf("%w: %v", domain.ErrTimeConflict, err)
		case pgSerializationFailure, pgDeadlockDetected, pgQueryCanceled:
			return fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
	}

	return fmt.Errorf("%w: %v", domain.ErrInternal, err)
}
