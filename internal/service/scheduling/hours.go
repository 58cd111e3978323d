package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// HoursConfig рабочие часы в часах суток
// Обеденный перерыв отключается, если LunchStartHour == LunchEndHour
// Часы отсчитываются в поясе Location (nil - локальный пояс процесса)
type HoursConfig struct {
	OpenHour       int
	CloseHour      int
	LunchStartHour int
	LunchEndHour   int
	Location       *time.Location
}

// DefaultHoursConfig возвращает рабочие часы 09:00-20:00 с обедом 12:00-13:00
func DefaultHoursConfig() HoursConfig {
	return HoursConfig{
		OpenHour:       domain.DefaultOpenHour,
		CloseHour:      domain.DefaultCloseHour,
		LunchStartHour: domain.DefaultLunchStartHour,
		LunchEndHour:   domain.DefaultLunchEndHour,
	}
}

// Validate проверяет согласованность часов
func (c HoursConfig) Validate() error {
	if c.OpenHour < 0 || c.CloseHour > 24 || c.OpenHour >= c.CloseHour {
		return fmt.Errorf("%w: open=%d close=%d", ErrInvalidHours, c.OpenHour, c.CloseHour)
	}
	if c.LunchStartHour == c.LunchEndHour {
		return nil
	}
	if c.LunchStartHour < c.OpenHour || c.LunchStartHour >= c.LunchEndHour || c.LunchEndHour > c.CloseHour {
		return fmt.Errorf("%w: lunch %d-%d is outside %d-%d",
			ErrInvalidHours, c.LunchStartHour, c.LunchEndHour, c.OpenHour, c.CloseHour)
	}
	return nil
}

func (c HoursConfig) hasLunch() bool {
	return c.LunchStartHour != c.LunchEndHour
}

// BusinessHours политика рабочих часов
// Открыто в [open, close) за вычетом [lunchStart, lunchEnd), с точностью до минуты.
// Все проверки выполняются в поясе сервиса, смещение, с которым пришло время, не учитывается
type BusinessHours struct {
	cfg HoursConfig
	loc *time.Location
}

// NewBusinessHours создает политику рабочих часов
func NewBusinessHours(cfg HoursConfig) (*BusinessHours, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &BusinessHours{cfg: cfg, loc: loc}, nil
}

// Config возвращает конфигурацию часов
func (b *BusinessHours) Config() HoursConfig {
	return b.cfg
}

// Location возвращает пояс сервиса
func (b *BusinessHours) Location() *time.Location {
	return b.loc
}

// InZone переводит момент t в пояс сервиса
func (b *BusinessHours) InZone(t time.Time) time.Time {
	return t.In(b.loc)
}

// IsOpen проверяет, что в момент t можно начинать запись
func (b *BusinessHours) IsOpen(t time.Time) bool {
	t = b.InZone(t)
	minute := t.Hour()*60 + t.Minute()

	if minute < b.cfg.OpenHour*60 || minute >= b.cfg.CloseHour*60 {
		return false
	}

	if b.cfg.hasLunch() && minute >= b.cfg.LunchStartHour*60 && minute < b.cfg.LunchEndHour*60 {
		return false
	}

	return true
}

// OpensAt возвращает время открытия в день момента day (по поясу сервиса)
func (b *BusinessHours) OpensAt(day time.Time) time.Time {
	return atHour(b.InZone(day), b.cfg.OpenHour)
}

// ClosesAt возвращает время закрытия в день момента day (по поясу сервиса)
func (b *BusinessHours) ClosesAt(day time.Time) time.Time {
	return atHour(b.InZone(day), b.cfg.CloseHour)
}

// StartOfDay возвращает полночь календарной даты date в поясе сервиса
// Берутся только год, месяц и день date, пояс date не важен
func (b *BusinessHours) StartOfDay(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, b.loc)
}

// FitsSegments проверяет цепочку услуг: каждая услуга начинается в рабочее время
// и заканчивается не позже закрытия своего дня
func (b *BusinessHours) FitsSegments(segments []domain.Segment) bool {
	if len(segments) == 0 {
		return false
	}

	for _, s := range segments {
		if !b.IsOpen(s.Start) {
			return false
		}
		if s.End.After(b.ClosesAt(s.Start)) {
			return false
		}
	}

	return true
}

// atHour возвращает day с временем hour:00 (hour=24 означает полночь следующего дня)
func atHour(day time.Time, hour int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, day.Location())
}
