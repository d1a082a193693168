package reservation

import (
	"carrental/internal/db"
	"carrental/internal/pricing"
)

const InlineDefaultTime = "06:00"

// QuickRequest is the single-screen reservation form: no last name, no terms
// checkbox, times optional.
type QuickRequest struct {
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
	EndDate   string `json:"end_date"`
	EndTime   string `json:"end_time"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message,omitempty"`
}

func (r QuickRequest) draft() Draft {
	d := Draft{StartTime: InlineDefaultTime, EndTime: InlineDefaultTime}
	d.SetStartDate(r.StartDate)
	d.SetEndDate(r.EndDate)
	if r.StartTime != "" {
		d.SetStartTime(r.StartTime)
	}
	if r.EndTime != "" {
		d.SetEndTime(r.EndTime)
	}
	d.SetFirstName(r.FirstName)
	d.SetEmail(r.Email)
	d.SetPhone(r.Phone)
	d.SetMessage(r.Message)
	return d
}

// QuickBook acknowledges a one-shot reservation. Nothing is kept once the
// confirmation is returned. The form prices whole dates: its times are kept
// on the draft but do not count towards the billable days.
func (c *Controller) QuickBook(vehicle db.Vehicle, req QuickRequest) (*Confirmation, error) {
	if vehicle.ID == "" {
		return nil, ErrVehicleRequired
	}
	d := req.draft()
	if !Validate(StepDates, d) || d.FirstName == "" || d.Email == "" || d.Phone == "" {
		return nil, ErrIncompleteStep
	}
	dates := pricing.Range{StartDate: d.StartDate, EndDate: d.EndDate}
	return c.confirm(vehicle, d, dates, c.now().Add(c.timing.InlineResetDelay)), nil
}
