package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestSlotGenerator_GenerateSlots_DefaultDay(t *testing.T) {
	gen, err := NewSlotGenerator(defaultHours(t), domain.DefaultSlotMinutes)
	require.NoError(t, err)

	slots := gen.GenerateSlots(testDay)
	require.Len(t, slots, 20)

	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label()
		assert.Equal(t, s.Start.Add(gen.Step()), s.End)
	}

	assert.Equal(t, "09:00", labels[0])
	assert.Equal(t, "11:30", labels[5])
	assert.Equal(t, "13:00", labels[6])
	assert.Equal(t, "19:30", labels[19])
	assert.NotContains(t, labels, "12:00")
	assert.NotContains(t, labels, "12:30")
}

func TestSlotGenerator_IgnoresTimeOfDate(t *testing.T) {
	gen, err := NewSlotGenerator(defaultHours(t), 60)
	require.NoError(t, err)

	fromMidnight := gen.GenerateSlots(testDay)
	fromEvening := gen.GenerateSlots(at(18, 45))

	assert.Equal(t, fromMidnight, fromEvening)
	assert.Len(t, fromMidnight, 10)
}

func TestNewSlotGenerator_InvalidStep(t *testing.T) {
	_, err := NewSlotGenerator(defaultHours(t), 0)
	assert.ErrorIs(t, err, ErrInvalidSlotStep)
}
