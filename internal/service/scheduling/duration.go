package scheduling

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// DurationResolver определяет длительность услуг и раскладывает цепочку по времени
type DurationResolver struct {
	defaultMinutes int
}

// NewDurationResolver создает резолвер с длительностью по умолчанию defaultMinutes
func NewDurationResolver(defaultMinutes int) *DurationResolver {
	if defaultMinutes <= 0 {
		defaultMinutes = domain.DefaultServiceDurationMinutes
	}
	return &DurationResolver{defaultMinutes: defaultMinutes}
}

// DurationOf возвращает длительность услуги в минутах
// Для неизвестной услуги или услуги без длительности используется значение по умолчанию
func (r *DurationResolver) DurationOf(svc *domain.Service) int {
	if svc == nil || svc.DurationMinutes <= 0 {
		return r.defaultMinutes
	}
	return svc.DurationMinutes
}

// Chain раскладывает услуги друг за другом начиная со start в переданном порядке
// Возвращает сегменты и время окончания всей цепочки
func (r *DurationResolver) Chain(start time.Time, services []*domain.Service) ([]domain.Segment, time.Time) {
	segments := make([]domain.Segment, 0, len(services))
	cursor := start

	for i, svc := range services {
		minutes := r.DurationOf(svc)
		end := cursor.Add(time.Duration(minutes) * time.Minute)

		seg := domain.Segment{
			Position:        i,
			Start:           cursor,
			End:             end,
			DurationMinutes: minutes,
			Price:           decimal.Zero,
		}
		if svc != nil {
			seg.ServiceID = svc.ID
			seg.Price = svc.Price
		}

		segments = append(segments, seg)
		cursor = end
	}

	return segments, cursor
}

// TotalValue возвращает суммарную стоимость сегментов
func TotalValue(segments []domain.Segment) decimal.Decimal {
	total := decimal.Zero
	for _, s := range segments {
		total = total.Add(s.Price)
	}
	return total.Round(2)
}
