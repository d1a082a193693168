package service

import (
	"context"
	"errors"
	"strings"

	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultVehicleImage = "/default-car.jpg"

var ErrInvalidVehicle = errors.New("name, category and a positive day rate are required")

type AdminVehicleService struct {
	vehicles     repository.VehicleStore
	reservations *ReservationService
	metrics      *metrics.Metrics
	log          logger.ILogger
	newID        func() string
}

func NewAdminVehicleService(vehicles repository.VehicleStore, reservations *ReservationService, m *metrics.Metrics, log logger.ILogger) *AdminVehicleService {
	return &AdminVehicleService{
		vehicles:     vehicles,
		reservations: reservations,
		metrics:      m,
		log:          log,
		newID:        uuid.NewString,
	}
}

func (s *AdminVehicleService) ListVehicles(ctx context.Context) ([]db.Vehicle, error) {
	return s.vehicles.ListVehicles(ctx)
}

func (s *AdminVehicleService) CreateVehicle(ctx context.Context, req entities.VehicleRequest) (*db.Vehicle, error) {
	v, err := vehicleFromRequest(req)
	if err != nil {
		return nil, err
	}
	v.ID = s.newID()
	if err := s.vehicles.CreateVehicle(ctx, v); err != nil {
		return nil, err
	}
	s.metrics.VehicleChangesTotal.WithLabelValues("create").Inc()
	s.log.Info("vehicle created", logger.String("vehicle_id", v.ID), logger.String("name", v.Name))
	return v, nil
}

func (s *AdminVehicleService) UpdateVehicle(ctx context.Context, id string, req entities.VehicleRequest) (*db.Vehicle, error) {
	v, err := vehicleFromRequest(req)
	if err != nil {
		return nil, err
	}
	v.ID = id
	if err := s.vehicles.UpdateVehicle(ctx, v); err != nil {
		return nil, err
	}
	s.metrics.VehicleChangesTotal.WithLabelValues("update").Inc()
	s.log.Info("vehicle updated", logger.String("vehicle_id", id))
	return v, nil
}

func (s *AdminVehicleService) DeleteVehicle(ctx context.Context, id string) error {
	if err := s.vehicles.DeleteVehicle(ctx, id); err != nil {
		return err
	}
	s.metrics.VehicleChangesTotal.WithLabelValues("delete").Inc()
	s.log.Info("vehicle deleted", logger.String("vehicle_id", id))
	return nil
}

func (s *AdminVehicleService) Dashboard(ctx context.Context) (*entities.DashboardResponse, error) {
	vehicles, err := s.vehicles.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	open, err := s.reservations.CountOpenReservations(ctx)
	if err != nil {
		return nil, err
	}

	resp := &entities.DashboardResponse{
		TotalVehicles:       len(vehicles),
		OpenReservations:    open,
		SubmittedSinceStart: s.reservations.SubmittedCount(),
	}
	for _, v := range vehicles {
		if v.Available {
			resp.AvailableVehicles++
		}
	}
	return resp, nil
}

func vehicleFromRequest(req entities.VehicleRequest) (*db.Vehicle, error) {
	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	rate, err := decimal.NewFromString(strings.TrimSpace(req.DayRate))
	if name == "" || category == "" || err != nil || !rate.IsPositive() {
		return nil, ErrInvalidVehicle
	}

	v := &db.Vehicle{
		Name:        name,
		Category:    category,
		DayRate:     rate,
		ImageRef:    req.ImageRef,
		Description: req.Description,
		Available:   req.Available == nil || *req.Available,
		Specs: db.VehicleSpecs{
			Year:         req.Year,
			Transmission: req.Transmission,
			FuelType:     req.FuelType,
			SeatCount:    req.SeatCount,
		},
	}
	if v.ImageRef == "" {
		v.ImageRef = defaultVehicleImage
	}
	return v, nil
}
