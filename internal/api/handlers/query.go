package handlers

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

// ParseOptionalTime разбирает RFC3339 значение query параметра, пустое значение - nil
func ParseOptionalTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return ptr.Ptr(t), nil
}

// ParseOptionalInt разбирает целое значение query параметра, пустое значение - 0
func ParseOptionalInt(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
