package reservation

import (
	"errors"
	"time"

	"carrental/internal/db"
	"carrental/internal/pricing"
	"carrental/internal/utils"

	"github.com/shopspring/decimal"
)

var (
	ErrIncompleteStep   = errors.New("required fields are missing for this step")
	ErrTermsNotAccepted = errors.New("terms and conditions must be accepted")
	ErrAlreadySubmitted = errors.New("reservation already submitted")
	ErrNoPreviousStep   = errors.New("already at the first step")
	ErrVehicleRequired  = errors.New("vehicle is required")
)

// Pricer prices a rental period for a day rate.
type Pricer interface {
	Quote(r pricing.Range, dayRate decimal.Decimal) (pricing.Quote, error)
}

type Timing struct {
	// ResetDelay is how long a submitted wizard shows its confirmation before starting over.
	ResetDelay time.Duration
	// InlineResetDelay is the confirmation display time of the one-shot reservation form.
	InlineResetDelay time.Duration
	// NoticeDelay is how long the "terms not accepted" notice stays up.
	NoticeDelay time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		ResetDelay:       9 * time.Second,
		InlineResetDelay: 3 * time.Second,
		NoticeDelay:      3 * time.Second,
	}
}

// Confirmation is the local acknowledgment shown once a reservation is
// submitted. It is never sent anywhere.
type Confirmation struct {
	Reference   string         `json:"reference"`
	FirstName   string         `json:"first_name"`
	Email       string         `json:"email"`
	VehicleName string         `json:"vehicle_name"`
	Price       *pricing.Quote `json:"price,omitempty"`
	DismissAt   time.Time      `json:"dismiss_at"`
}

// Wizard is the state of one reservation flow. It carries no behaviour so it
// can be kept in any session store; Controller applies the transitions.
type Wizard struct {
	ID               string        `json:"id"`
	Vehicle          db.Vehicle    `json:"vehicle"`
	Step             Step          `json:"step"`
	Draft            Draft         `json:"draft"`
	Confirmation     *Confirmation `json:"confirmation,omitempty"`
	ResetAt          *time.Time    `json:"reset_at,omitempty"`
	TermsNoticeUntil *time.Time    `json:"terms_notice_until,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

type Controller struct {
	pricer       Pricer
	timing       Timing
	now          func() time.Time
	newReference func() string
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithReferenceGenerator(gen func() string) Option {
	return func(c *Controller) { c.newReference = gen }
}

func NewController(pricer Pricer, timing Timing, opts ...Option) *Controller {
	c := &Controller{
		pricer:       pricer,
		timing:       timing,
		now:          time.Now,
		newReference: utils.NewReference,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Timing() Timing { return c.timing }

func (c *Controller) Start(id string, vehicle db.Vehicle) *Wizard {
	now := c.now()
	return &Wizard{
		ID:        id,
		Vehicle:   vehicle,
		Step:      StepDates,
		Draft:     NewDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Refresh applies expired timers: it clears a stale terms notice and resets a
// submitted wizard whose confirmation delay has passed. It reports whether
// the state changed.
func (c *Controller) Refresh(w *Wizard) bool {
	now := c.now()
	changed := false
	if w.TermsNoticeUntil != nil && !now.Before(*w.TermsNoticeUntil) {
		w.TermsNoticeUntil = nil
		changed = true
	}
	if w.Step == StepSubmitted && w.ResetAt != nil && !now.Before(*w.ResetAt) {
		c.reset(w)
		changed = true
	}
	return changed
}

// TermsNoticeActive reports whether the "terms not accepted" notice is showing.
func (c *Controller) TermsNoticeActive(w *Wizard) bool {
	return w.TermsNoticeUntil != nil && c.now().Before(*w.TermsNoticeUntil)
}

// Edit applies setters to the draft. Submitted wizards are read-only.
func (c *Controller) Edit(w *Wizard, edit func(d *Draft)) error {
	c.Refresh(w)
	if w.Step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	edit(&w.Draft)
	w.UpdatedAt = c.now()
	return nil
}

func (c *Controller) SelectVehicle(w *Wizard, vehicle db.Vehicle) error {
	c.Refresh(w)
	if w.Step == StepSubmitted {
		return ErrAlreadySubmitted
	}
	w.Vehicle = vehicle
	w.UpdatedAt = c.now()
	return nil
}

// Quote prices the wizard's current draft for its vehicle.
func (c *Controller) Quote(w *Wizard) (pricing.Quote, error) {
	return c.pricer.Quote(rangeOf(w.Draft), w.Vehicle.DayRate)
}

// Next advances one step when the current step validates. From the
// confirmation step it submits the reservation.
func (c *Controller) Next(w *Wizard) error {
	c.Refresh(w)
	now := c.now()

	switch w.Step {
	case StepSubmitted:
		return ErrAlreadySubmitted
	case StepConfirm:
		if !Validate(StepConfirm, w.Draft) {
			until := now.Add(c.timing.NoticeDelay)
			w.TermsNoticeUntil = &until
			w.UpdatedAt = now
			return ErrTermsNotAccepted
		}
		c.submit(w, now)
		return nil
	}

	if !Validate(w.Step, w.Draft) {
		return ErrIncompleteStep
	}
	w.Step++
	w.UpdatedAt = now
	return nil
}

// Back moves to the previous step without validation.
func (c *Controller) Back(w *Wizard) error {
	c.Refresh(w)
	switch {
	case w.Step == StepSubmitted:
		return ErrAlreadySubmitted
	case w.Step <= StepDates:
		return ErrNoPreviousStep
	}
	w.Step--
	w.UpdatedAt = c.now()
	return nil
}

// Close abandons the flow, discarding everything typed so far.
func (c *Controller) Close(w *Wizard) {
	c.reset(w)
}

func (c *Controller) submit(w *Wizard, now time.Time) {
	resetAt := now.Add(c.timing.ResetDelay)
	w.Confirmation = c.confirm(w.Vehicle, w.Draft, rangeOf(w.Draft), resetAt)
	w.Step = StepSubmitted
	w.ResetAt = &resetAt
	w.TermsNoticeUntil = nil
	w.UpdatedAt = now
}

// confirm builds the acknowledgment for d, priced over r.
func (c *Controller) confirm(vehicle db.Vehicle, d Draft, r pricing.Range, dismissAt time.Time) *Confirmation {
	conf := &Confirmation{
		Reference:   c.newReference(),
		FirstName:   d.FirstName,
		Email:       d.Email,
		VehicleName: vehicle.Name,
		DismissAt:   dismissAt,
	}
	if q, err := c.pricer.Quote(r, vehicle.DayRate); err == nil {
		conf.Price = &q
	}
	return conf
}

func (c *Controller) reset(w *Wizard) {
	w.Step = StepDates
	w.Draft = NewDraft()
	w.Confirmation = nil
	w.ResetAt = nil
	w.TermsNoticeUntil = nil
	w.UpdatedAt = c.now()
}

func rangeOf(d Draft) pricing.Range {
	return pricing.Range{
		StartDate: d.StartDate,
		StartTime: d.StartTime,
		EndDate:   d.EndDate,
		EndTime:   d.EndTime,
	}
}
