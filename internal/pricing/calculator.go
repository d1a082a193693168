// Package pricing turns a rental period and a vehicle day rate into a price.
package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	dayMillis = int64(24 * time.Hour / time.Millisecond)
)

// Mode selects how a reversed period (end before start) is billed.
type Mode string

const (
	// ModeAbsolute bills |end - start|, so a reversed period costs the same as the ordered one.
	ModeAbsolute Mode = "absolute"
	// ModeStrict rejects periods whose end is before their start.
	ModeStrict Mode = "strict"
)

var (
	ErrIncompleteRange = errors.New("start and end dates are required")
	ErrMalformedDate   = errors.New("malformed date or time")
	ErrEndBeforeStart  = errors.New("end must not be before start")
	ErrInvalidRate     = errors.New("day rate must be positive")
	ErrUnknownMode     = errors.New("unknown duration mode")
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAbsolute:
		return ModeAbsolute, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Range is a rental period as typed in the reservation form: calendar dates
// plus times of day, all in the calculator's location.
type Range struct {
	StartDate string
	StartTime string
	EndDate   string
	EndTime   string
}

type Quote struct {
	Days    int             `json:"days"`
	DayRate decimal.Decimal `json:"day_rate"`
	Total   decimal.Decimal `json:"total"`
}

type Calculator struct {
	mode Mode
	loc  *time.Location
}

func NewCalculator(mode Mode, loc *time.Location) *Calculator {
	if mode == "" {
		mode = ModeAbsolute
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{mode: mode, loc: loc}
}

func (c *Calculator) Mode() Mode { return c.mode }

func (c *Calculator) Location() *time.Location { return c.loc }

// Combine joins a date and a time of day into an instant. An empty clock means midnight.
func (c *Calculator) Combine(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation(DateLayout+"T"+ClockLayout, date+"T"+clock, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrMalformedDate, date, clock)
	}
	return t, nil
}

// BillableDays returns the number of started 24h periods between start and end,
// never less than one.
func (c *Calculator) BillableDays(start, end time.Time) (int, error) {
	diff := end.Sub(start).Milliseconds()
	if diff < 0 {
		if c.mode == ModeStrict {
			return 0, ErrEndBeforeStart
		}
		diff = -diff
	}

	days := diff / dayMillis
	if diff%dayMillis != 0 {
		days++
	}
	if days == 0 {
		days = 1
	}
	return int(days), nil
}

// Quote prices a rental period. Any error means the price is unavailable and
// must not be shown.
func (c *Calculator) Quote(r Range, dayRate decimal.Decimal) (Quote, error) {
	if r.StartDate == "" || r.EndDate == "" {
		return Quote{}, ErrIncompleteRange
	}
	if !dayRate.IsPositive() {
		return Quote{}, ErrInvalidRate
	}

	start, err := c.Combine(r.StartDate, r.StartTime)
	if err != nil {
		return Quote{}, err
	}
	end, err := c.Combine(r.EndDate, r.EndTime)
	if err != nil {
		return Quote{}, err
	}

	days, err := c.BillableDays(start, end)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Days:    days,
		DayRate: dayRate,
		Total:   dayRate.Mul(decimal.NewFromInt(int64(days))),
	}, nil
}
