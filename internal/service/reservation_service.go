package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/pricing"
	"carrental/internal/repository"
	"carrental/internal/reservation"

	"github.com/google/uuid"
)

var ErrVehicleUnavailable = errors.New("vehicle is not available for booking")

const (
	flowModal  = "modal"
	flowInline = "inline"
)

type ReservationService struct {
	// mu serialises load-modify-save cycles on sessions.
	mu         sync.Mutex
	sessions   repository.SessionRepository
	vehicles   repository.VehicleProvider
	controller *reservation.Controller
	pricer     reservation.Pricer
	metrics    *metrics.Metrics
	log        logger.ILogger
	newID      func() string
	submitted  atomic.Int64
}

func NewReservationService(
	sessions repository.SessionRepository,
	vehicles repository.VehicleProvider,
	controller *reservation.Controller,
	pricer reservation.Pricer,
	m *metrics.Metrics,
	log logger.ILogger,
) *ReservationService {
	return &ReservationService{
		sessions:   sessions,
		vehicles:   vehicles,
		controller: controller,
		pricer:     pricer,
		metrics:    m,
		log:        log,
		newID:      uuid.NewString,
	}
}

// Quote prices a period for a catalog vehicle. Pricing errors mean "price
// unavailable"; only lookup failures are returned as errors.
func (s *ReservationService) Quote(ctx context.Context, req entities.QuoteRequest) (*entities.QuoteResponse, error) {
	vehicle, err := s.vehicles.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	resp := &entities.QuoteResponse{VehicleID: vehicle.ID}
	q, err := s.pricer.Quote(pricing.Range{
		StartDate: req.StartDate,
		StartTime: req.StartTime,
		EndDate:   req.EndDate,
		EndTime:   req.EndTime,
	}, vehicle.DayRate)
	if err != nil {
		s.metrics.QuotesTotal.WithLabelValues("unavailable").Inc()
		resp.Reason = err.Error()
		return resp, nil
	}

	s.metrics.QuotesTotal.WithLabelValues("ok").Inc()
	resp.PriceAvailable = true
	resp.Price = &q
	return resp, nil
}

func (s *ReservationService) StartReservation(ctx context.Context, vehicleID string) (*entities.WizardView, error) {
	vehicle, err := s.bookableVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	w := s.controller.Start(s.newID(), *vehicle)
	if err := s.sessions.SaveSession(ctx, w); err != nil {
		return nil, err
	}
	s.log.Info("reservation started", logger.String("session_id", w.ID), logger.String("vehicle_id", vehicle.ID))
	return s.view(w), nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*entities.WizardView, error) {
	return s.mutate(ctx, id, func(w *reservation.Wizard) (bool, error) { return false, nil })
}

func (s *ReservationService) UpdateDraft(ctx context.Context, id string, patch entities.DraftPatch) (*entities.WizardView, error) {
	return s.mutate(ctx, id, func(w *reservation.Wizard) (bool, error) {
		err := s.controller.Edit(w, patch.Apply)
		return err == nil, err
	})
}

func (s *ReservationService) SelectVehicle(ctx context.Context, id, vehicleID string) (*entities.WizardView, error) {
	vehicle, err := s.bookableVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(w *reservation.Wizard) (bool, error) {
		err := s.controller.SelectVehicle(w, *vehicle)
		return err == nil, err
	})
}

// Next advances the wizard. A refusal at the terms step still persists the
// wizard so that the notice survives until it expires.
func (s *ReservationService) Next(ctx context.Context, id string) (*entities.WizardView, error) {
	return s.mutate(ctx, id, func(w *reservation.Wizard) (bool, error) {
		from := w.Step
		err := s.controller.Next(w)
		s.recordTransition("next", err)
		if err == nil && w.Step == reservation.StepSubmitted {
			s.metrics.SubmissionsTotal.WithLabelValues(flowModal).Inc()
			s.submitted.Add(1)
			s.log.Info("reservation submitted",
				logger.String("session_id", w.ID),
				logger.String("reference", w.Confirmation.Reference),
				logger.String("vehicle_id", w.Vehicle.ID))
		} else if err != nil {
			s.log.Debug("transition refused",
				logger.String("session_id", w.ID),
				logger.String("step", from.String()),
				logger.Error(err))
		}
		return err == nil || errors.Is(err, reservation.ErrTermsNotAccepted), err
	})
}

func (s *ReservationService) Back(ctx context.Context, id string) (*entities.WizardView, error) {
	return s.mutate(ctx, id, func(w *reservation.Wizard) (bool, error) {
		err := s.controller.Back(w)
		s.recordTransition("back", err)
		return err == nil, err
	})
}

func (s *ReservationService) Close(ctx context.Context, id string) (*entities.WizardView, error) {
	return s.mutate(ctx, id, func(w *reservation.Wizard) (bool, error) {
		s.controller.Close(w)
		s.recordTransition("close", nil)
		return true, nil
	})
}

// QuickReserve handles the one-screen reservation form. Nothing is stored.
func (s *ReservationService) QuickReserve(ctx context.Context, req entities.QuickReservationRequest) (*reservation.Confirmation, error) {
	vehicle, err := s.bookableVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	conf, err := s.controller.QuickBook(*vehicle, req.QuickRequest)
	if err != nil {
		return nil, err
	}
	s.metrics.SubmissionsTotal.WithLabelValues(flowInline).Inc()
	s.submitted.Add(1)
	s.log.Info("quick reservation acknowledged",
		logger.String("reference", conf.Reference),
		logger.String("vehicle_id", vehicle.ID))
	return conf, nil
}

// mutate loads a session, applies expired timers and fn, and saves it back
// when either changed it. fn reports whether it modified the wizard; its
// error is returned alongside the resulting view. Unchanged sessions are not
// written, so reads do not extend a store's expiry.
func (s *ReservationService) mutate(ctx context.Context, id string, fn func(w *reservation.Wizard) (bool, error)) (*entities.WizardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	refreshed := s.controller.Refresh(w)
	changed, fnErr := fn(w)
	if refreshed || changed {
		if err := s.sessions.SaveSession(ctx, w); err != nil {
			return nil, fmt.Errorf("error saving session %q: %w", id, err)
		}
	}
	return s.view(w), fnErr
}

func (s *ReservationService) bookableVehicle(ctx context.Context, vehicleID string) (*db.Vehicle, error) {
	if vehicleID == "" {
		return nil, reservation.ErrVehicleRequired
	}
	vehicle, err := s.vehicles.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Available {
		return nil, fmt.Errorf("vehicle %q: %w", vehicleID, ErrVehicleUnavailable)
	}
	return vehicle, nil
}

func (s *ReservationService) view(w *reservation.Wizard) *entities.WizardView {
	v := &entities.WizardView{
		ID:           w.ID,
		Vehicle:      w.Vehicle,
		Step:         int(w.Step),
		StepName:     w.Step.String(),
		Draft:        w.Draft,
		CanAdvance:   w.Step != reservation.StepSubmitted && reservation.Validate(w.Step, w.Draft),
		TermsNotice:  s.controller.TermsNoticeActive(w),
		Confirmation: w.Confirmation,
	}
	if q, err := s.controller.Quote(w); err == nil {
		v.PriceAvailable = true
		v.Price = &q
	}
	return v
}

func (s *ReservationService) recordTransition(action string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, reservation.ErrIncompleteStep):
		result = "incomplete"
	case errors.Is(err, reservation.ErrTermsNotAccepted):
		result = "terms_not_accepted"
	case err != nil:
		result = "refused"
	}
	s.metrics.TransitionsTotal.WithLabelValues(action, result).Inc()
}

// CountOpenReservations reports how many wizard sessions are stored.
func (s *ReservationService) CountOpenReservations(ctx context.Context) (int, error) {
	return s.sessions.CountSessions(ctx)
}

// SubmittedCount is the number of reservations acknowledged since start.
func (s *ReservationService) SubmittedCount() int {
	return int(s.submitted.Load())
}
