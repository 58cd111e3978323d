package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgUnavailable   = "сервис временно недоступен, повторите запрос"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
	Field   string `json:"field,omitempty"`
}

// DecodeJSON декодирует тело запроса, неизвестные поля отклоняются
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondError отправляет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// RespondBadRequest отправляет 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound отправляет 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondForbidden отправляет 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondInternalError отправляет 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// StatusOf возвращает HTTP статус для ошибки бизнес-логики
func StatusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrTimeConflict),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrAlreadyCompleted),
		errors.Is(err, domain.ErrNotEditable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusinessRule):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError отправляет ответ по ошибке бизнес-логики
// Для ошибок хранилища детали наружу не отдаются
func RespondDomainError(w http.ResponseWriter, err error) {
	status := StatusOf(err)

	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind == domain.KindPersistence {
		if status == http.StatusServiceUnavailable {
			RespondError(w, status, msgUnavailable)
			return
		}
		RespondInternalError(w)
		return
	}

	RespondJSON(w, status, ErrorResponse{
		Code:    status,
		Message: derr.Message,
		Reason:  derr.Code,
		Field:   derr.Field,
	})
}
