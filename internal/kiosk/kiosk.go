// Package kiosk runs one attendance action end to end: read the clock, look up
// today's record, let the policy decide, and write the outcome.
package kiosk

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
)

// Ledger is the storage the kiosk needs.
type Ledger interface {
	Find(ctx context.Context, employee string, date attendance.Date) (attendance.Record, bool, error)
	Insert(ctx context.Context, r attendance.Record) error
	UpdatePunchOut(ctx context.Context, employee string, date attendance.Date,
		punchOut attendance.TimeOfDay, status attendance.Status, extraHours float64) error
}

// Action identifies what the user asked for.
type Action string

const (
	ActionPunchIn  Action = "punch in"
	ActionPunchOut Action = "punch out"
)

// Result describes a successful action.
type Result struct {
	Action Action
	Record attendance.Record // copy of the row as written
	At     time.Time         // clock reading in the reference zone
}

// Service performs punches against a ledger.
type Service struct {
	ledger Ledger
	policy attendance.Policy
	nowFn  func() time.Time
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(nowFn func() time.Time) Option {
	return func(s *Service) { s.nowFn = nowFn }
}

// WithLogger sets the action logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New returns a Service using policy's reference zone.
func New(ledger Ledger, policy attendance.Policy, opts ...Option) *Service {
	s := &Service{
		ledger: ledger,
		policy: policy,
		nowFn:  time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the policy in effect.
func (s *Service) Policy() attendance.Policy { return s.policy }

// Today returns the current work date in the reference zone.
func (s *Service) Today() attendance.Date { return s.policy.Today(s.nowFn()) }

// PunchIn records the first punch of the day for rawName.
func (s *Service) PunchIn(ctx context.Context, rawName string) (Result, error) {
	name, err := attendance.NormalizeName(rawName)
	if err != nil {
		return Result{}, err
	}

	now := s.policy.Local(s.nowFn())
	today := attendance.DateOf(now)

	existing, found, err := s.ledger.Find(ctx, name, today)
	if err != nil {
		return Result{}, err
	}

	rec, err := s.policy.PunchIn(name, now, existing, found)
	if err != nil {
		s.logRejection(ActionPunchIn, name, today, err)
		return Result{}, err
	}

	if err := s.ledger.Insert(ctx, rec); err != nil {
		s.logger.Error("punch in failed",
			slog.String("employee", name),
			slog.String("date", today.String()),
			slog.Any("error", err))
		return Result{}, err
	}

	s.logger.Info("punched in",
		slog.String("employee", name),
		slog.String("date", today.String()),
		slog.String("time", rec.PunchIn.String()),
		slog.String("status", string(rec.Status)))

	return Result{Action: ActionPunchIn, Record: rec, At: now}, nil
}

// PunchOut closes today's open record for rawName.
func (s *Service) PunchOut(ctx context.Context, rawName string) (Result, error) {
	name, err := attendance.NormalizeName(rawName)
	if err != nil {
		return Result{}, err
	}

	now := s.policy.Local(s.nowFn())
	today := attendance.DateOf(now)

	existing, found, err := s.ledger.Find(ctx, name, today)
	if err != nil {
		return Result{}, err
	}

	out, err := s.policy.PunchOut(now, existing, found)
	if err != nil {
		s.logRejection(ActionPunchOut, name, today, err)
		return Result{}, err
	}

	if err := s.ledger.UpdatePunchOut(ctx, name, today, out.Time, out.Status, out.ExtraHours); err != nil {
		s.logger.Error("punch out failed",
			slog.String("employee", name),
			slog.String("date", today.String()),
			slog.Any("error", err))
		return Result{}, err
	}

	rec := existing
	rec.PunchOut = &out.Time
	rec.Status = out.Status
	rec.ExtraHours = out.ExtraHours

	s.logger.Info("punched out",
		slog.String("employee", name),
		slog.String("date", today.String()),
		slog.String("time", out.Time.String()),
		slog.String("status", string(out.Status)),
		slog.Float64("extra_hours", out.ExtraHours))

	return Result{Action: ActionPunchOut, Record: rec, At: now}, nil
}

// Status reports where rawName stands today.
func (s *Service) Status(ctx context.Context, rawName string) (attendance.State, attendance.Record, error) {
	name, err := attendance.NormalizeName(rawName)
	if err != nil {
		return attendance.StateNoRecord, attendance.Record{}, err
	}

	rec, found, err := s.ledger.Find(ctx, name, s.Today())
	if err != nil {
		return attendance.StateNoRecord, attendance.Record{}, err
	}
	return attendance.StateOf(rec, found), rec, nil
}

func (s *Service) logRejection(action Action, name string, date attendance.Date, err error) {
	s.logger.Info("action rejected",
		slog.String("action", string(action)),
		slog.String("employee", name),
		slog.String("date", date.String()),
		slog.String("reason", err.Error()))
}
