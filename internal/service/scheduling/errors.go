package scheduling

import "errors"

var (
	// ErrInvalidHours возвращается при некорректной конфигурации рабочих часов
	ErrInvalidHours = errors.New("scheduling: invalid business hours")

	// ErrInvalidSlotStep возвращается при некорректном шаге слотов
	ErrInvalidSlotStep = errors.New("scheduling: invalid slot step")
)
