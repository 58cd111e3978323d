package get_available_slots

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return domain.ErrInvalidInput.WithMessage("request is required")
	}

	if req.ProfessionalID <= 0 {
		return domain.ErrInvalidInput.WithField("professionalId").WithMessage("professionalId must be positive")
	}

	if req.Date.IsZero() {
		return domain.ErrInvalidInput.WithField("date").WithMessage("date is required")
	}

	return nil
}
