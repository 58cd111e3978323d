package domain

// Default configuration values
const (
	DefaultOpenHour               = 9
	DefaultCloseHour              = 20
	DefaultLunchStartHour         = 12
	DefaultLunchEndHour           = 13
	DefaultSlotMinutes            = 30
	DefaultServiceDurationMinutes = 60
)

// Business validation constants
const (
	MaxNotesLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
