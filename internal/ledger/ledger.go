// Package ledger persists attendance records in SQLite.
//
// One row exists per (employee_name, work_date); the pair is the table's
// primary key, so the uniqueness check and the insert happen atomically in
// the database. Punch-out is a single conditional UPDATE on the open row.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Ledger is the sole owner and writer of attendance rows.
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger routes migration and write logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// Open opens (creating if needed) the database at path and migrates it to the
// current schema version.
func Open(ctx context.Context, path string, opts ...Option) (*Ledger, error) {
	l := &Ledger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(l)
	}

	dsn := path
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, storageErr("create database directory", err)
		}
		// Immediate transactions take the write lock up front so busy_timeout
		// applies; a deferred read-to-write upgrade fails at once when locked.
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storageErr("open database", err)
	}
	// One connection: SQLite has a single writer, and ":memory:" is per-connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, storageErr("open database", err)
	}

	l.db = db
	if err := l.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	if err := l.db.Close(); err != nil {
		return storageErr("close database", err)
	}
	return nil
}

// Insert stores a new record. It fails with ErrDuplicateRecord if a record for
// the same employee and date already exists.
func (l *Ledger) Insert(ctx context.Context, r attendance.Record) error {
	if r.EmployeeName == "" {
		return &attendance.ValidationError{Field: "employee name", Err: attendance.ErrEmptyName}
	}

	var punchOut sql.NullString
	if r.PunchOut != nil {
		punchOut = sql.NullString{String: r.PunchOut.String(), Valid: true}
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO attendance (employee_name, work_date, punch_in_time, punch_out_time, status, extra_hours)
		VALUES (?, ?, ?, ?, ?, ?);`,
		r.EmployeeName, r.WorkDate.String(), r.PunchIn.String(), punchOut, string(r.Status), r.ExtraHours,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateRecord
	}
	if err != nil {
		return storageErr("insert record", err)
	}

	l.logger.Debug("record inserted",
		slog.String("employee", r.EmployeeName),
		slog.String("date", r.WorkDate.String()))
	return nil
}

// UpdatePunchOut closes the open record for (employee, date), setting the
// punch-out time, status and extra hours in one statement.
func (l *Ledger) UpdatePunchOut(
	ctx context.Context,
	employee string, date attendance.Date,
	punchOut attendance.TimeOfDay, status attendance.Status, extraHours float64,
) error {
	res, err := l.db.ExecContext(ctx, `
		UPDATE attendance
		SET punch_out_time = ?, status = ?, extra_hours = ?
		WHERE employee_name = ? AND work_date = ? AND punch_out_time IS NULL;`,
		punchOut.String(), string(status), extraHours, employee, date.String(),
	)
	if err != nil {
		return storageErr("update punch-out", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update punch-out", err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}

	l.logger.Debug("record closed",
		slog.String("employee", employee),
		slog.String("date", date.String()))
	return nil
}

// Find returns the record for (employee, date). found is false when none
// exists; absence is not an error.
func (l *Ledger) Find(ctx context.Context, employee string, date attendance.Date) (attendance.Record, bool, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT employee_name, work_date, punch_in_time, punch_out_time, status, extra_hours
		FROM attendance
		WHERE employee_name = ? AND work_date = ?;`,
		employee, date.String(),
	)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Record{}, false, nil
	}
	if err != nil {
		return attendance.Record{}, false, storageErr("find record", err)
	}
	return r, true, nil
}

// All returns every record in insertion order.
func (l *Ledger) All(ctx context.Context) ([]attendance.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT employee_name, work_date, punch_in_time, punch_out_time, status, extra_hours
		FROM attendance
		ORDER BY rowid;`)
	if err != nil {
		return nil, storageErr("list records", err)
	}
	defer func() { _ = rows.Close() }()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("list records", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list records", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (attendance.Record, error) {
	var (
		name, date, punchIn, status string
		punchOut                    sql.NullString
		extra                       float64
	)
	if err := s.Scan(&name, &date, &punchIn, &punchOut, &status, &extra); err != nil {
		return attendance.Record{}, err
	}

	r := attendance.Record{EmployeeName: name, ExtraHours: extra}

	var err error
	if r.WorkDate, err = attendance.ParseDate(date); err != nil {
		return attendance.Record{}, fmt.Errorf("corrupt work_date for %q: %w", name, err)
	}
	if r.PunchIn, err = attendance.ParseTimeOfDay(punchIn); err != nil {
		return attendance.Record{}, fmt.Errorf("corrupt punch_in_time for %q: %w", name, err)
	}
	if punchOut.Valid {
		out, err := attendance.ParseTimeOfDay(punchOut.String)
		if err != nil {
			return attendance.Record{}, fmt.Errorf("corrupt punch_out_time for %q: %w", name, err)
		}
		r.PunchOut = &out
	}
	if r.Status, err = attendance.ParseStatus(status); err != nil {
		return attendance.Record{}, fmt.Errorf("corrupt status for %q: %w", name, err)
	}
	return r, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
