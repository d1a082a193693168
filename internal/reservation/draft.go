// Package reservation holds the reservation form state and the rules that
// move a customer through it.
package reservation

import "strings"

const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "18:00"
)

// Draft is the in-progress reservation form of a single booking attempt.
type Draft struct {
	StartDate     string `json:"start_date"`
	StartTime     string `json:"start_time"`
	EndDate       string `json:"end_date"`
	EndTime       string `json:"end_time"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message,omitempty"`
	AcceptedTerms bool   `json:"accepted_terms"`
}

func NewDraft() Draft {
	return Draft{StartTime: DefaultStartTime, EndTime: DefaultEndTime}
}

func (d *Draft) SetStartDate(v string) { d.StartDate = v }
func (d *Draft) SetStartTime(v string) { d.StartTime = normalizeClock(v) }
func (d *Draft) SetEndDate(v string)   { d.EndDate = v }
func (d *Draft) SetEndTime(v string)   { d.EndTime = normalizeClock(v) }
func (d *Draft) SetFirstName(v string) { d.FirstName = v }
func (d *Draft) SetLastName(v string)  { d.LastName = v }
func (d *Draft) SetEmail(v string)     { d.Email = v }
func (d *Draft) SetPhone(v string)     { d.Phone = v }
func (d *Draft) SetMessage(v string)   { d.Message = v }

func (d *Draft) SetAcceptedTerms(v bool) { d.AcceptedTerms = v }

// normalizeClock completes a bare hour such as "14" to "14:00".
func normalizeClock(v string) string {
	v = strings.TrimSpace(v)
	if len(v) == 2 && !strings.Contains(v, ":") {
		return v + ":00"
	}
	return v
}
