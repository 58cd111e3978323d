package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind классифицирует ошибки бизнес-логики
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindBusinessRule ErrorKind = "business_rule"
	KindPersistence  ErrorKind = "persistence"
)

// Error типизированная ошибка с видом, кодом и подробностями
// errors.Is(err, ErrBusinessRule) совпадает по виду, errors.Is(err, ErrTimeConflict) по коду
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Field   string // Поле запроса, вызвавшее ошибку (опционально)
	ID      int64  // Идентификатор сущности, вызвавшей ошибку (опционально)
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Code != "" {
		b.WriteString(": ")
		b.WriteString(e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field=%s)", e.Field)
	}
	if e.ID != 0 {
		fmt.Fprintf(&b, " (id=%d)", e.ID)
	}
	return b.String()
}

// Is сравнивает по коду, а для ошибок-видов без кода по виду
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code == "" {
		return t.Kind == e.Kind
	}
	return t.Code == e.Code
}

// WithField возвращает копию ошибки с указанием поля
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// WithID возвращает копию ошибки с идентификатором сущности
func (e *Error) WithID(id int64) *Error {
	c := *e
	c.ID = id
	return &c
}

// WithMessage возвращает копию ошибки с уточнённым сообщением
func (e *Error) WithMessage(format string, v ...interface{}) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, v...)
	return &c
}

// Виды ошибок
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrBusinessRule = &Error{Kind: KindBusinessRule}
	ErrPersistence  = &Error{Kind: KindPersistence}
)

var (
	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = &Error{Kind: KindValidation, Code: "invalid_input", Message: "invalid input data"}

	// ErrClientNotFound клиент не найден
	ErrClientNotFound = &Error{Kind: KindNotFound, Code: "client_not_found", Message: "client not found"}

	// ErrProfessionalNotFound специалист не найден
	ErrProfessionalNotFound = &Error{Kind: KindNotFound, Code: "professional_not_found", Message: "professional not found"}

	// ErrServiceNotFound услуга не найдена
	ErrServiceNotFound = &Error{Kind: KindNotFound, Code: "service_not_found", Message: "service not found"}

	// ErrAppointmentNotFound запись не найдена
	ErrAppointmentNotFound = &Error{Kind: KindNotFound, Code: "appointment_not_found", Message: "appointment not found"}

	// ErrInPast время записи не в будущем
	ErrInPast = &Error{Kind: KindBusinessRule, Code: "in_the_past", Message: "appointment must start in the future"}

	// ErrOutsideHours время записи вне рабочих часов или в обеденный перерыв
	ErrOutsideHours = &Error{Kind: KindBusinessRule, Code: "outside_hours", Message: "appointment is outside business hours"}

	// ErrTimeConflict время пересекается с другой активной записью специалиста
	ErrTimeConflict = &Error{Kind: KindBusinessRule, Code: "time_conflict", Message: "time is not available for the professional"}

	// ErrAlreadyCancelled запись уже отменена
	ErrAlreadyCancelled = &Error{Kind: KindBusinessRule, Code: "already_cancelled", Message: "appointment is already cancelled"}

	// ErrAlreadyCompleted запись уже завершена
	ErrAlreadyCompleted = &Error{Kind: KindBusinessRule, Code: "already_completed", Message: "appointment is already completed"}

	// ErrNotEditable запись в терминальном статусе нельзя изменить
	ErrNotEditable = &Error{Kind: KindBusinessRule, Code: "not_editable", Message: "cancelled or completed appointment cannot be changed"}

	// ErrAccessDenied запись принадлежит другому клиенту
	ErrAccessDenied = &Error{Kind: KindBusinessRule, Code: "access_denied", Message: "appointment belongs to another client"}

	// ErrTransient временная ошибка хранилища (таймаут, конфликт сериализации), запрос можно повторить
	ErrTransient = &Error{Kind: KindPersistence, Code: "transient", Message: "storage is temporarily unavailable"}

	// ErrInternal прочие ошибки хранилища
	ErrInternal = &Error{Kind: KindPersistence, Code: "internal", Message: "storage error"}
)

// Исходы операций с записями (метка outcome в метриках)
const (
	OutcomeSuccess  = "success"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Outcome классифицирует результат операции для метрик
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrTimeConflict), errors.Is(err, ErrAlreadyCancelled):
		return OutcomeConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound), errors.Is(err, ErrBusinessRule):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
