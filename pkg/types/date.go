package types

import (
	"fmt"
	"time"
)

// DateLayout is the storage and display layout of GenDate values.
const DateLayout = "2006-01-02"

// Precision qualifies a GenDate. It is stored alongside the date, never
// inferred from it.
type Precision int

// Date precisions. The zero value is PrecisionUnknown.
const (
	PrecisionUnknown Precision = iota
	PrecisionExact
	PrecisionApproximate
	PrecisionBefore
	PrecisionAfter
)

var precisionNames = map[Precision]string{
	PrecisionUnknown:     "unknown",
	PrecisionExact:       "exact",
	PrecisionApproximate: "approximate",
	PrecisionBefore:      "before",
	PrecisionAfter:       "after",
}

// String returns the string form of the precision.
func (p Precision) String() string {
	if s, ok := precisionNames[p]; ok {
		return s
	}
	return fmt.Sprintf("precision(%d)", int(p))
}

// ParsePrecision returns the precision for its string form.
func ParsePrecision(s string) (Precision, error) {
	for p, name := range precisionNames {
		if name == s {
			return p, nil
		}
	}
	return PrecisionUnknown, fmt.Errorf("parse precision %q: %w", s, ErrInvalidPrecision)
}

// GenDate is a calendar date qualified by a precision.
type GenDate struct {
	Date      time.Time
	Precision Precision
}

// NewGenDate returns a GenDate truncated to the day, in UTC.
func NewGenDate(year int, month time.Month, day int, p Precision) GenDate {
	return GenDate{Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Precision: p}
}

// ParseGenDate parses a date in DateLayout with the given precision.
func ParseGenDate(date string, p Precision) (GenDate, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return GenDate{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	return GenDate{Date: t, Precision: p}, nil
}

// IsZero reports whether the date is unset.
func (d GenDate) IsZero() bool {
	return d.Date.IsZero() && d.Precision == PrecisionUnknown
}

// Normalize truncates the date to the day in UTC.
func (d GenDate) Normalize() GenDate {
	if d.Date.IsZero() {
		return GenDate{Precision: d.Precision}
	}
	y, m, day := d.Date.Date()
	return NewGenDate(y, m, day, d.Precision)
}

// String formats the date as "<precision> <date>", or "unknown" when unset.
func (d GenDate) String() string {
	if d.Date.IsZero() {
		return d.Precision.String()
	}
	return d.Precision.String() + " " + d.Date.Format(DateLayout)
}
