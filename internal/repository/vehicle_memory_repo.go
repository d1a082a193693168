package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"carrental/internal/db"
)

// MemoryVehicleRepository keeps the fleet in process memory. Changes are lost
// on restart.
type MemoryVehicleRepository struct {
	mu       sync.RWMutex
	vehicles []db.Vehicle
}

func NewMemoryVehicleRepository(seed []db.Vehicle) *MemoryVehicleRepository {
	vehicles := make([]db.Vehicle, len(seed))
	copy(vehicles, seed)
	return &MemoryVehicleRepository{vehicles: vehicles}
}

func (r *MemoryVehicleRepository) ListVehicles(ctx context.Context) ([]db.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]db.Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	return out, nil
}

func (r *MemoryVehicleRepository) GetVehicle(ctx context.Context, id string) (*db.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("vehicle %q: %w", id, ErrVehicleNotFound)
	}
	v := r.vehicles[i]
	return &v, nil
}

func (r *MemoryVehicleRepository) CreateVehicle(ctx context.Context, v *db.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(v.ID) >= 0 {
		return fmt.Errorf("vehicle %q already exists", v.ID)
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	r.vehicles = append(r.vehicles, *v)
	return nil
}

func (r *MemoryVehicleRepository) UpdateVehicle(ctx context.Context, v *db.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(v.ID)
	if i < 0 {
		return fmt.Errorf("vehicle %q: %w", v.ID, ErrVehicleNotFound)
	}
	v.CreatedAt = r.vehicles[i].CreatedAt
	v.UpdatedAt = time.Now().UTC()
	r.vehicles[i] = *v
	return nil
}

func (r *MemoryVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("vehicle %q: %w", id, ErrVehicleNotFound)
	}
	r.vehicles = append(r.vehicles[:i], r.vehicles[i+1:]...)
	return nil
}

func (r *MemoryVehicleRepository) indexOf(id string) int {
	for i, v := range r.vehicles {
		if v.ID == id {
			return i
		}
	}
	return -1
}
