package entities

import (
	"carrental/internal/db"
	"carrental/internal/pricing"
	"carrental/internal/reservation"
)

type QuoteRequest struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
}

type QuoteResponse struct {
	VehicleID      string         `json:"vehicle_id"`
	PriceAvailable bool           `json:"price_available"`
	Price          *pricing.Quote `json:"price,omitempty"`
	Reason         string         `json:"reason,omitempty"`
}

type StartReservationRequest struct {
	VehicleID string `json:"vehicle_id"`
}

type SelectVehicleRequest struct {
	VehicleID string `json:"vehicle_id"`
}

// DraftPatch carries the form fields a client changed. Absent fields are left untouched.
type DraftPatch struct {
	StartDate     *string `json:"start_date"`
	StartTime     *string `json:"start_time"`
	EndDate       *string `json:"end_date"`
	EndTime       *string `json:"end_time"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Message       *string `json:"message"`
	AcceptedTerms *bool   `json:"accepted_terms"`
}

// Apply sets every present field through the draft's setters.
func (p DraftPatch) Apply(d *reservation.Draft) {
	setters := []struct {
		value *string
		set   func(string)
	}{
		{p.StartDate, d.SetStartDate},
		{p.StartTime, d.SetStartTime},
		{p.EndDate, d.SetEndDate},
		{p.EndTime, d.SetEndTime},
		{p.FirstName, d.SetFirstName},
		{p.LastName, d.SetLastName},
		{p.Email, d.SetEmail},
		{p.Phone, d.SetPhone},
		{p.Message, d.SetMessage},
	}
	for _, s := range setters {
		if s.value != nil {
			s.set(*s.value)
		}
	}
	if p.AcceptedTerms != nil {
		d.SetAcceptedTerms(*p.AcceptedTerms)
	}
}

// WizardView is what the reservation screen renders.
type WizardView struct {
	ID             string                    `json:"id"`
	Vehicle        db.Vehicle                `json:"vehicle"`
	Step           int                       `json:"step"`
	StepName       string                    `json:"step_name"`
	Draft          reservation.Draft         `json:"draft"`
	CanAdvance     bool                      `json:"can_advance"`
	PriceAvailable bool                      `json:"price_available"`
	Price          *pricing.Quote            `json:"price,omitempty"`
	TermsNotice    bool                      `json:"terms_notice"`
	Confirmation   *reservation.Confirmation `json:"confirmation,omitempty"`
}

type QuickReservationRequest struct {
	VehicleID string `json:"vehicle_id"`
	reservation.QuickRequest
}
