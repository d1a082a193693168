package service

import (
	"context"

	"carrental/internal/db"
	"carrental/internal/repository"
)

type CatalogService struct {
	vehicles repository.VehicleProvider
}

func NewCatalogService(vehicles repository.VehicleProvider) *CatalogService {
	return &CatalogService{vehicles: vehicles}
}

func (s *CatalogService) ListVehicles(ctx context.Context) ([]db.Vehicle, error) {
	return s.vehicles.ListVehicles(ctx)
}

func (s *CatalogService) GetVehicle(ctx context.Context, id string) (*db.Vehicle, error) {
	return s.vehicles.GetVehicle(ctx, id)
}
