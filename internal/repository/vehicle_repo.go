package repository

import (
	"context"
	"errors"

	"carrental/internal/db"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleProvider is the read-only view of the fleet used by the catalog and
// the reservation flow.
type VehicleProvider interface {
	ListVehicles(ctx context.Context) ([]db.Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*db.Vehicle, error)
}

// VehicleStore adds the admin operations on the fleet.
type VehicleStore interface {
	VehicleProvider
	CreateVehicle(ctx context.Context, v *db.Vehicle) error
	UpdateVehicle(ctx context.Context, v *db.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}
