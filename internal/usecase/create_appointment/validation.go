package create_appointment

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return domain.ErrInvalidInput.WithMessage("request is required")
	}

	if req.ClientID <= 0 {
		return domain.ErrInvalidInput.WithField("clientId").WithMessage("clientId must be positive")
	}

	if req.ProfessionalID <= 0 {
		return domain.ErrInvalidInput.WithField("professionalId").WithMessage("professionalId must be positive")
	}

	if len(req.ServiceIDs) == 0 {
		return domain.ErrInvalidInput.WithField("serviceIds").WithMessage("at least one service is required")
	}

	for i, id := range req.ServiceIDs {
		if id <= 0 {
			return domain.ErrInvalidInput.WithField(fmt.Sprintf("serviceIds[%d]", i)).WithMessage("serviceId must be positive")
		}
	}

	if req.ScheduledStart.IsZero() {
		return domain.ErrInvalidInput.WithField("scheduledStart").WithMessage("scheduledStart is required")
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return domain.ErrInvalidInput.WithField("notes").WithMessage("notes must be at most %d characters", domain.MaxNotesLength)
	}

	return nil
}
