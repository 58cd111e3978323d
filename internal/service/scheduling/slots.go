package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotGenerator генерирует сетку слотов рабочего дня
type SlotGenerator struct {
	hours *BusinessHours
	step  time.Duration
}

// NewSlotGenerator создает генератор слотов с шагом slotMinutes
func NewSlotGenerator(hours *BusinessHours, slotMinutes int) (*SlotGenerator, error) {
	if slotMinutes <= 0 || slotMinutes > 24*60 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidSlotStep, slotMinutes)
	}
	return &SlotGenerator{
		hours: hours,
		step:  time.Duration(slotMinutes) * time.Minute,
	}, nil
}

// Step возвращает шаг сетки
func (g *SlotGenerator) Step() time.Duration {
	return g.step
}

// StartOfDay возвращает полночь календарной даты date в поясе сервиса
func (g *SlotGenerator) StartOfDay(date time.Time) time.Time {
	return g.hours.StartOfDay(date)
}

// GenerateSlots возвращает слоты дня date от открытия до закрытия
// Слоты, начало которых попадает на обед, пропускаются
func (g *SlotGenerator) GenerateSlots(date time.Time) []domain.TimeSlot {
	closeAt := g.hours.ClosesAt(date)
	slots := make([]domain.TimeSlot, 0)

	for start := g.hours.OpensAt(date); start.Before(closeAt); start = start.Add(g.step) {
		if !g.hours.IsOpen(start) {
			continue
		}
		slots = append(slots, domain.TimeSlot{Start: start, End: start.Add(g.step)})
	}

	return slots
}
