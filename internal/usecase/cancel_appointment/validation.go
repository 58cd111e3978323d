package cancel_appointment

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return domain.ErrInvalidInput.WithMessage("request is required")
	}

	if req.AppointmentID <= 0 {
		return domain.ErrInvalidInput.WithField("appointmentId").WithMessage("appointmentId must be positive")
	}

	if req.ClientID <= 0 {
		return domain.ErrInvalidInput.WithField("clientId").WithMessage("clientId must be positive")
	}

	return nil
}

// checkCancellable проверяет владельца и статус записи
func checkCancellable(a *domain.Appointment, clientID int64) error {
	if a.ClientID != clientID {
		return domain.ErrAccessDenied.WithID(a.ID)
	}

	switch a.Status {
	case domain.StatusCancelled:
		return domain.ErrAlreadyCancelled.WithID(a.ID)
	case domain.StatusCompleted:
		return domain.ErrAlreadyCompleted.WithID(a.ID)
	}

	return nil
}
