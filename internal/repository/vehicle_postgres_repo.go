package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carrental/internal/db"
)

const vehicleColumns = `id, name, category, day_rate, image_ref, description, available,
	year, transmission, fuel_type, seat_count, created_at, updated_at`

type PostgresVehicleRepository struct {
	DB *sql.DB
}

func NewPostgresVehicleRepository(conn *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: conn}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*db.Vehicle, error) {
	var v db.Vehicle
	err := row.Scan(
		&v.ID, &v.Name, &v.Category, &v.DayRate, &v.ImageRef, &v.Description, &v.Available,
		&v.Specs.Year, &v.Specs.Transmission, &v.Specs.FuelType, &v.Specs.SeatCount,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *PostgresVehicleRepository) ListVehicles(ctx context.Context) ([]db.Vehicle, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicle rows: %w", err)
	}
	return vehicles, nil
}

func (r *PostgresVehicleRepository) GetVehicle(ctx context.Context, id string) (*db.Vehicle, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vehicle %q: %w", id, ErrVehicleNotFound)
		}
		return nil, fmt.Errorf("error querying vehicle %q: %w", id, err)
	}
	return v, nil
}

func (r *PostgresVehicleRepository) CreateVehicle(ctx context.Context, v *db.Vehicle) error {
	query := `
		INSERT INTO vehicles
		(id, name, category, day_rate, image_ref, description, available, year, transmission, fuel_type, seat_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		v.ID, v.Name, v.Category, v.DayRate, v.ImageRef, v.Description, v.Available,
		v.Specs.Year, v.Specs.Transmission, v.Specs.FuelType, v.Specs.SeatCount,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting vehicle %q: %w", v.ID, err)
	}
	return nil
}

func (r *PostgresVehicleRepository) UpdateVehicle(ctx context.Context, v *db.Vehicle) error {
	query := `
		UPDATE vehicles
		SET name = $2, category = $3, day_rate = $4, image_ref = $5, description = $6, available = $7,
			year = $8, transmission = $9, fuel_type = $10, seat_count = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		v.ID, v.Name, v.Category, v.DayRate, v.ImageRef, v.Description, v.Available,
		v.Specs.Year, v.Specs.Transmission, v.Specs.FuelType, v.Specs.SeatCount,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("vehicle %q: %w", v.ID, ErrVehicleNotFound)
		}
		return fmt.Errorf("error updating vehicle %q: %w", v.ID, err)
	}
	return nil
}

func (r *PostgresVehicleRepository) DeleteVehicle(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle %q: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting vehicle %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("vehicle %q: %w", id, ErrVehicleNotFound)
	}
	return nil
}

// SeedVehicles inserts the catalog entries that are not in the table yet.
func (r *PostgresVehicleRepository) SeedVehicles(ctx context.Context, vehicles []db.Vehicle) error {
	query := `
		INSERT INTO vehicles
		(id, name, category, day_rate, image_ref, description, available, year, transmission, fuel_type, seat_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`
	for _, v := range vehicles {
		_, err := r.DB.ExecContext(ctx, query,
			v.ID, v.Name, v.Category, v.DayRate, v.ImageRef, v.Description, v.Available,
			v.Specs.Year, v.Specs.Transmission, v.Specs.FuelType, v.Specs.SeatCount,
		)
		if err != nil {
			return fmt.Errorf("error seeding vehicle %q: %w", v.ID, err)
		}
	}
	return nil
}
