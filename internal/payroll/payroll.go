// Package payroll holds the pay arithmetic for day-rate workers: clock
// duration parsing, CIS deduction rates and period windows. All amounts
// are GBP.
package payroll

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rudybnb/workforce-api/pkg/models"
)

const (
	// DefaultHourlyRate applies when a worker has no admin-set rate.
	DefaultHourlyRate = 9.0

	// CIS (Construction Industry Scheme) deduction percentages.
	CISRegisteredRate   = 20.0
	CISUnregisteredRate = 30.0
)

// HourlyRate resolves the effective rate for a worker: the admin-set
// rate when present, the default otherwise.
func HourlyRate(adminRate float64) float64 {
	if adminRate > 0 {
		return adminRate
	}
	return DefaultHourlyRate
}

// CISRate returns the deduction percentage for a worker's CIS status.
func CISRate(registered bool) float64 {
	if registered {
		return CISRegisteredRate
	}
	return CISUnregisteredRate
}

// ParseClockDuration converts "H:MM" clock text into fractional hours,
// e.g. "7:30" -> 7.5. The clock-out flow writes this format; anything
// else is rejected so callers can skip the row.
func ParseClockDuration(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock duration %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("malformed clock duration %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed clock duration %q", s)
	}
	return float64(hours) + float64(minutes)/60, nil
}

// Summary aggregates a set of work sessions priced at one rate.
type Summary struct {
	TotalHours    float64
	TotalSessions int
	GrossPay      float64
	NetPay        float64
}

// Deduction is the CIS amount withheld from gross pay.
func (s Summary) Deduction() float64 {
	return Round2(s.GrossPay - s.NetPay)
}

// Summarize totals the given sessions at hourlyRate with a cisRate
// percentage deduction. Every session counts toward TotalSessions, but
// only completed sessions with parseable duration text contribute
// hours. Monetary values are rounded to pennies.
func Summarize(sessions []models.WorkSession, hourlyRate, cisRate float64) Summary {
	var total float64
	for _, sess := range sessions {
		if sess.EndTime == nil || sess.TotalHours == "" {
			continue
		}
		hours, err := ParseClockDuration(sess.TotalHours)
		if err != nil {
			continue
		}
		total += hours
	}

	gross := total * hourlyRate
	net := gross * (1 - cisRate/100)
	return Summary{
		TotalHours:    Round2(total),
		TotalSessions: len(sessions),
		GrossPay:      Round2(gross),
		NetPay:        Round2(net),
	}
}

// Round2 rounds to two decimal places, the precision used in responses.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// DayStart returns midnight of t's day in t's location.
func DayStart(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// WeekWindow returns midnight seven days before t, the rolling window
// the hours and payments screens call "this week".
func WeekWindow(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, -7)
}
