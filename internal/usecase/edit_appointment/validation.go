package edit_appointment

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return domain.ErrInvalidInput.WithMessage("request is required")
	}

	if req.AppointmentID <= 0 {
		return domain.ErrInvalidInput.WithField("appointmentId").WithMessage("appointmentId must be positive")
	}

	if req.ScheduledStart == nil && req.ProfessionalID == nil && req.ServiceIDs == nil {
		return domain.ErrInvalidInput.WithMessage("nothing to change")
	}

	if req.ScheduledStart != nil && req.ScheduledStart.IsZero() {
		return domain.ErrInvalidInput.WithField("scheduledStart").WithMessage("scheduledStart must not be empty")
	}

	if req.ProfessionalID != nil && *req.ProfessionalID <= 0 {
		return domain.ErrInvalidInput.WithField("professionalId").WithMessage("professionalId must be positive")
	}

	if req.ServiceIDs != nil {
		if len(req.ServiceIDs) == 0 {
			return domain.ErrInvalidInput.WithField("serviceIds").WithMessage("at least one service is required")
		}
		for i, id := range req.ServiceIDs {
			if id <= 0 {
				return domain.ErrInvalidInput.WithField(fmt.Sprintf("serviceIds[%d]", i)).WithMessage("serviceId must be positive")
			}
		}
	}

	return nil
}

// proposal итоговые значения записи после применения изменений
type proposal struct {
	start          time.Time
	professionalID int64
	serviceIDs     []int64
}

// merge применяет изменения из запроса к текущей записи
func merge(current *domain.Appointment, req *Request) proposal {
	p := proposal{
		start:          current.ScheduledStart,
		professionalID: current.ProfessionalID,
		serviceIDs:     current.ServiceIDs(),
	}

	if req.ScheduledStart != nil {
		p.start = *req.ScheduledStart
	}
	if req.ProfessionalID != nil {
		p.professionalID = *req.ProfessionalID
	}
	if req.ServiceIDs != nil {
		p.serviceIDs = append([]int64(nil), req.ServiceIDs...)
	}

	return p
}

// professionalsToLock возвращает специалистов для блокировки в порядке возрастания ID
// Единый порядок исключает взаимную блокировку двух переносов навстречу друг другу.
// Блокировки специалистов всегда берутся до блокировки строки записи
func professionalsToLock(oldID, newID int64) []int64 {
	if oldID == newID {
		return []int64{oldID}
	}
	ids := []int64{oldID, newID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
