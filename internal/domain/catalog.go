package domain

import "github.com/shopspring/decimal"

// Service is a catalog entry, read-only for scheduling
type Service struct {
	ID              int64
	Name            string
	Price           decimal.Decimal
	DurationMinutes int // <= 0 means "not set", the configured default applies
}

// Professional is the provider whose calendar is booked
type Professional struct {
	ID        int64
	Name      string
	Specialty string
}

// Client is the person who books appointments
type Client struct {
	ID   int64
	Name string
}
