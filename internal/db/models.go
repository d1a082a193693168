package db

import (
	"time"

	"github.com/shopspring/decimal"
)

type VehicleSpecs struct {
	Year         int    `json:"year" yaml:"year"`
	Transmission string `json:"transmission" yaml:"transmission"`
	FuelType     string `json:"fuel_type" yaml:"fuel_type"`
	SeatCount    int    `json:"seat_count" yaml:"seat_count"`
}

type Vehicle struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Category    string          `json:"category" yaml:"category"`
	DayRate     decimal.Decimal `json:"day_rate" yaml:"-"`
	ImageRef    string          `json:"image_ref" yaml:"image_ref"`
	Description string          `json:"description" yaml:"description"`
	Available   bool            `json:"available" yaml:"-"`
	Specs       VehicleSpecs    `json:"specs" yaml:"specs"`
	CreatedAt   time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time       `json:"updated_at" yaml:"-"`
}

type Admin struct {
	ID           int
	Username     string
	PasswordHash string
}
