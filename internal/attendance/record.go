package attendance

import "fmt"

// Status classifies a day's attendance.
type Status string

const (
	StatusOnTime   Status = "On Time"
	StatusLate     Status = "Late"
	StatusEarlyOut Status = "Early Out"
)

// ParseStatus accepts the stored strings plus their compact spellings
// ("OnTime", "EarlyOut").
func ParseStatus(s string) (Status, error) {
	switch s {
	case string(StatusOnTime), "OnTime":
		return StatusOnTime, nil
	case string(StatusLate):
		return StatusLate, nil
	case string(StatusEarlyOut), "EarlyOut":
		return StatusEarlyOut, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Record is one employee's attendance for one calendar day.
type Record struct {
	EmployeeName string
	WorkDate     Date
	PunchIn      TimeOfDay
	PunchOut     *TimeOfDay // nil while the record is open
	Status       Status
	ExtraHours   float64
}

// Open reports whether the record still awaits a punch-out.
func (r Record) Open() bool { return r.PunchOut == nil }

// State is the per-employee, per-day position in the punch state machine.
type State int

const (
	StateNoRecord State = iota
	StatePunchedIn
	StatePunchedOut
)

func (s State) String() string {
	switch s {
	case StatePunchedIn:
		return "punched in"
	case StatePunchedOut:
		return "punched out"
	default:
		return "not punched in"
	}
}

// StateOf maps a ledger lookup result onto the state machine.
func StateOf(r Record, found bool) State {
	switch {
	case !found:
		return StateNoRecord
	case r.Open():
		return StatePunchedIn
	default:
		return StatePunchedOut
	}
}
