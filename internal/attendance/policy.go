package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/Flyrell/punchclock/internal/stringutil"
)

// Default thresholds, in the reference zone.
var (
	DefaultLateAfter      = NewTimeOfDay(10, 15, 0)
	DefaultEarlyOutBefore = NewTimeOfDay(18, 45, 0)
	DefaultOvertimeAfter  = NewTimeOfDay(19, 0, 0)
)

// Policy holds the time rules for classifying punches. All comparisons are
// made on the time-of-day in Location; the date only keys the record.
type Policy struct {
	Location       *time.Location
	LateAfter      TimeOfDay // punch-in after this is Late
	EarlyOutBefore TimeOfDay // punch-out before this is Early Out
	OvertimeAfter  TimeOfDay // punch-out after this accrues extra hours
}

// PunchOut is the outcome of a successful punch-out evaluation.
type PunchOut struct {
	Time       TimeOfDay
	Status     Status
	ExtraHours float64
}

// DefaultPolicy returns the standard thresholds in loc.
func DefaultPolicy(loc *time.Location) Policy {
	return Policy{
		Location:       loc,
		LateAfter:      DefaultLateAfter,
		EarlyOutBefore: DefaultEarlyOutBefore,
		OvertimeAfter:  DefaultOvertimeAfter,
	}
}

// Validate checks that the policy can classify punches consistently.
func (p Policy) Validate() error {
	if p.Location == nil {
		return errors.New("policy has no time zone")
	}
	if p.OvertimeAfter.Before(p.EarlyOutBefore) {
		return fmt.Errorf("overtime threshold %s is earlier than early-out threshold %s",
			p.OvertimeAfter, p.EarlyOutBefore)
	}
	return nil
}

// Local converts now into the reference zone.
func (p Policy) Local(now time.Time) time.Time {
	return now.In(p.Location)
}

// Today returns the calendar date of now in the reference zone.
func (p Policy) Today(now time.Time) Date {
	return DateOf(p.Local(now))
}

// NormalizeName cleans a typed employee name and rejects empty input.
func NormalizeName(raw string) (string, error) {
	name := stringutil.NormalizeSpace(raw)
	if name == "" {
		return "", &ValidationError{Field: "employee name", Err: ErrEmptyName}
	}
	return name, nil
}

// PunchIn evaluates a punch-in at now. existing/found is the ledger lookup for
// (employee, today); any existing record rejects the punch, whatever its state.
func (p Policy) PunchIn(employee string, now time.Time, existing Record, found bool) (Record, error) {
	if found {
		return Record{}, ErrAlreadyPunchedIn
	}

	local := p.Local(now)
	status := StatusOnTime
	if sinceMidnight(local) > p.LateAfter.Offset() {
		status = StatusLate
	}

	return Record{
		EmployeeName: employee,
		WorkDate:     DateOf(local),
		PunchIn:      ClockOf(local),
		Status:       status,
	}, nil
}

// PunchOut evaluates a punch-out at now against today's record.
func (p Policy) PunchOut(now time.Time, existing Record, found bool) (PunchOut, error) {
	if !found {
		return PunchOut{}, ErrNotPunchedInYet
	}
	if !existing.Open() {
		return PunchOut{}, ErrAlreadyPunchedOut
	}

	local := p.Local(now)
	tod := sinceMidnight(local)
	out := PunchOut{Time: ClockOf(local), Status: StatusOnTime}

	switch {
	case tod < p.EarlyOutBefore.Offset():
		out.Status = StatusEarlyOut
	case tod > p.OvertimeAfter.Offset():
		// Anchored at the threshold on the punch-out day, not at punch-in.
		threshold := p.OvertimeAfter.On(DateOf(local), p.Location)
		out.ExtraHours = local.Sub(threshold).Hours()
	}

	return out, nil
}
