package scheduling

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var testDay = time.Date(2030, 5, 14, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func defaultHours(t *testing.T) *BusinessHours {
	t.Helper()
	cfg := DefaultHoursConfig()
	cfg.Location = time.UTC
	hours, err := NewBusinessHours(cfg)
	require.NoError(t, err)
	return hours
}

func appointment(id int64, start, end time.Time, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:             id,
		ProfessionalID: 1,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Status:         status,
		TotalValue:     decimal.NewFromInt(100),
	}
}
