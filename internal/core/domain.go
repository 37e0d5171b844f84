package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

const (
	StatusWorked   WorkDayStatus = "worked"
	StatusVacation WorkDayStatus = "vacation"
	StatusSick     WorkDayStatus = "sick"
	StatusHoliday  WorkDayStatus = "holiday"
	StatusAbsent   WorkDayStatus = "absent"
)

type (
	TransactionType string

	WorkDayStatus string

	Date struct {
		time.Time
	}

	// Transaction is a single income or expense record. Amount keeps the
	// sign it was stored with; aggregation always works on its absolute
	// value.
	Transaction struct {
		ID          int64           `json:"id"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Amount      float64         `json:"amount"`
		Date        Date            `json:"date"`
	}

	// WorkDay is a calendar-day record of hours and rate. Only days with
	// StatusWorked contribute HoursWorked * DailyRate as salary income.
	WorkDay struct {
		ID          int64         `json:"id"`
		Date        Date          `json:"date"`
		HoursWorked float64       `json:"hoursWorked"`
		DailyRate   float64       `json:"dailyRate"`
		Status      WorkDayStatus `json:"status"`
	}

	// DateRange is an inclusive day-granularity interval. A nil *DateRange
	// means "no filtering".
	DateRange struct {
		Start Date
		End   Date
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidStatus = errors.New("invalid work day status")
	ErrNegativeHours = errors.New("hours worked cannot be negative")
	ErrNegativeRate  = errors.New("daily rate cannot be negative")
	ErrInvalidRange  = errors.New("range end before start")
	ErrDescription   = errors.New("description too long (max 200 characters)")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	switch t.Type {
	case TypeIncome, TypeExpense:
	default:
		return ErrInvalidType
	}
	if t.Amount == 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return ErrDescription
	}
	return nil
}

func (w WorkDay) Validate() error {
	if err := w.Date.Validate(); err != nil {
		return err
	}
	switch w.Status {
	case StatusWorked, StatusVacation, StatusSick, StatusHoliday, StatusAbsent:
	default:
		return ErrInvalidStatus
	}
	if w.HoursWorked < 0 {
		return ErrNegativeHours
	}
	if w.DailyRate < 0 {
		return ErrNegativeRate
	}
	return nil
}

func (r DateRange) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if r.End.Before(r.Start.Time) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether d falls inside the inclusive range.
func (r DateRange) Contains(d Date) bool {
	return !d.Before(r.Start.Time) && !d.After(r.End.Time)
}
