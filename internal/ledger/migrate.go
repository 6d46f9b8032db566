package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// SchemaVersion is the layout this build reads and writes, stamped in
// PRAGMA user_version.
const SchemaVersion = 1

const createAttendanceV1 = `
	CREATE TABLE attendance (
		employee_name  TEXT NOT NULL CHECK (employee_name <> ''),
		work_date      TEXT NOT NULL,
		punch_in_time  TEXT NOT NULL,
		punch_out_time TEXT,
		status         TEXT NOT NULL,
		extra_hours    REAL NOT NULL DEFAULT 0 CHECK (extra_hours >= 0),
		PRIMARY KEY (employee_name, work_date)
	);`

// Rows from the first kiosk release, keyed by employee_name alone.
// Times were stored with microseconds; only HH:MM:SS is kept.
const copyFromPunchInDate = `
	INSERT OR IGNORE INTO attendance (employee_name, work_date, punch_in_time, punch_out_time, status, extra_hours)
	SELECT employee_name,
	       punch_in_date,
	       substr(punch_in_time, 1, 8),
	       CASE WHEN punch_out_time IS NULL OR punch_out_time = '' THEN NULL
	            ELSE substr(punch_out_time, 1, 8) END,
	       COALESCE(NULLIF(status, ''), 'On Time'),
	       MAX(COALESCE(extra_hours, 0), 0)
	FROM attendance_legacy
	WHERE employee_name IS NOT NULL AND employee_name <> ''
	  AND punch_in_date IS NOT NULL AND punch_in_time IS NOT NULL
	ORDER BY rowid;`

type tableShape int

const (
	shapeMissing tableShape = iota
	shapeCurrent
	shapeEmployeeID
	shapePunchInDate
	shapeUnknown
)

func (l *Ledger) migrate(ctx context.Context) error {
	var version int
	if err := l.db.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return storageErr("read schema version", err)
	}

	switch {
	case version > SchemaVersion:
		return fmt.Errorf("schema version %d, supported %d: %w", version, SchemaVersion, ErrSchemaTooNew)
	case version == SchemaVersion:
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin migration", err)
	}
	defer func() { _ = tx.Rollback() }()

	shape, err := inspectAttendance(ctx, tx)
	if err != nil {
		return storageErr("inspect schema", err)
	}

	switch shape {
	case shapeMissing:
		err = execAll(ctx, tx, createAttendanceV1)

	case shapeCurrent:
		// Created by hand or by a build that did not stamp the version.

	case shapeEmployeeID:
		var discarded int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance;`).Scan(&discarded); err != nil {
			return storageErr("count legacy rows", err)
		}
		l.logger.Warn("discarding attendance table keyed by employee_id",
			slog.Int("rows", discarded))
		err = execAll(ctx, tx, `DROP TABLE attendance;`, createAttendanceV1)

	case shapePunchInDate:
		err = execAll(ctx, tx,
			`ALTER TABLE attendance RENAME TO attendance_legacy;`,
			createAttendanceV1,
			copyFromPunchInDate,
			`DROP TABLE attendance_legacy;`,
		)
		if err == nil {
			l.logger.Info("migrated attendance table from punch_in_date layout")
		}

	default:
		return ErrSchemaMismatch
	}
	if err != nil {
		return storageErr("migrate schema", err)
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d;`, SchemaVersion)); err != nil {
		return storageErr("stamp schema version", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit migration", err)
	}
	return nil
}

func inspectAttendance(ctx context.Context, tx *sql.Tx) (tableShape, error) {
	rows, err := tx.QueryContext(ctx, `PRAGMA table_info(attendance);`)
	if err != nil {
		return shapeUnknown, err
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]bool)
	var keyColumns []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return shapeUnknown, err
		}
		columns[name] = true
		if pk > 0 {
			keyColumns = append(keyColumns, name)
		}
	}
	if err := rows.Err(); err != nil {
		return shapeUnknown, err
	}

	switch {
	case len(columns) == 0:
		return shapeMissing, nil
	case columns["employee_id"]:
		return shapeEmployeeID, nil
	case columns["employee_name"] && columns["punch_in_date"]:
		return shapePunchInDate, nil
	case hasAll(columns, "employee_name", "work_date", "punch_in_time", "punch_out_time", "status", "extra_hours"):
		if !keyedByEmployeeDay(keyColumns) {
			return shapeUnknown, nil
		}
		return shapeCurrent, nil
	}
	return shapeUnknown, nil
}

// keyedByEmployeeDay reports whether the primary key is exactly
// (employee_name, work_date), in either order.
func keyedByEmployeeDay(keyColumns []string) bool {
	if len(keyColumns) != 2 {
		return false
	}
	set := map[string]bool{keyColumns[0]: true, keyColumns[1]: true}
	return set["employee_name"] && set["work_date"]
}

func hasAll(columns map[string]bool, names ...string) bool {
	for _, n := range names {
		if !columns[n] {
			return false
		}
	}
	return true
}

func execAll(ctx context.Context, tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
