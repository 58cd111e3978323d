package scheduling

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Overlaps проверяет пересечение полуинтервалов [start, end)
// Интервалы, которые только граничат друг с другом, не пересекаются
func Overlaps(a, b domain.Interval) bool {
	return a.Overlaps(b)
}

// FindConflict возвращает первую активную запись, пересекающуюся с candidate
// Запись с идентификатором excludeID не учитывается (0 - ничего не исключать)
func FindConflict(candidate domain.Interval, existing []*domain.Appointment, excludeID int64) *domain.Appointment {
	for _, a := range existing {
		if a == nil || !a.IsActive() {
			continue
		}
		if excludeID != 0 && a.ID == excludeID {
			continue
		}
		if Overlaps(candidate, a.Interval()) {
			return a
		}
	}
	return nil
}

// IsAvailable проверяет, что candidate не пересекается ни с одной активной записью
func IsAvailable(candidate domain.Interval, existing []*domain.Appointment, excludeID int64) bool {
	return FindConflict(candidate, existing, excludeID) == nil
}

// AvailableSlots оставляет слоты, которые начинаются после now и не пересекаются с активными записями
// Запись занимает весь свой интервал [start, end), а не только слот начала
func AvailableSlots(slots []domain.TimeSlot, existing []*domain.Appointment, now time.Time) []domain.TimeSlot {
	result := make([]domain.TimeSlot, 0, len(slots))

	for _, slot := range slots {
		if !slot.Start.After(now) {
			continue
		}
		if !IsAvailable(slot.Interval(), existing, 0) {
			continue
		}
		result = append(result, slot)
	}

	return result
}
