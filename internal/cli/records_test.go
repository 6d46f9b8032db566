package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLister struct{ err error }

func (f failingLister) All(context.Context) ([]attendance.Record, error) { return nil, f.err }

func seedRecords(t *testing.T, sess *session) {
	t.Helper()
	out := attendance.TimeOfDay{Hour: 19, Minute: 30}
	records := []attendance.Record{
		{
			EmployeeName: "Jane Doe",
			WorkDate:     testDay,
			PunchIn:      attendance.TimeOfDay{Hour: 9, Minute: 55},
			PunchOut:     &out,
			Status:       attendance.StatusOnTime,
			ExtraHours:   0.5,
		},
		{
			EmployeeName: "John Roe",
			WorkDate:     testDay,
			PunchIn:      attendance.TimeOfDay{Hour: 10, Minute: 40},
			Status:       attendance.StatusLate,
		},
		{
			EmployeeName: "Jane Doe",
			WorkDate:     attendance.Date{Year: 2025, Month: time.June, Day: 16},
			PunchIn:      attendance.TimeOfDay{Hour: 10, Minute: 5},
			Status:       attendance.StatusOnTime,
		},
	}
	for _, r := range records {
		require.NoError(t, sess.ledger.Insert(context.Background(), r))
	}
}

func execRecords(lister recordLister, date, employee string) (string, error) {
	buf := new(bytes.Buffer)
	err := runRecords(context.Background(), buf, lister, date, employee)
	return buf.String(), err
}

func TestRecordsEmpty(t *testing.T) {
	sess, _, _ := setupSession(t)

	out, err := execRecords(sess.ledger, "", "")

	require.NoError(t, err)
	assert.Contains(t, out, "No records to display yet.")
}

func TestRecordsTable(t *testing.T) {
	sess, _, _ := setupSession(t)
	seedRecords(t, sess)

	out, err := execRecords(sess.ledger, "", "")

	require.NoError(t, err)
	for _, want := range []string{"Employee", "Status", "Jane Doe", "John Roe", "19:30:00", "Late", "2025-06-16"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "3 records")
	assert.Contains(t, out, "0.50 extra hours")
}

func TestRecordsFilterByDate(t *testing.T) {
	sess, _, _ := setupSession(t)
	seedRecords(t, sess)

	out, err := execRecords(sess.ledger, "2025-06-16", "")

	require.NoError(t, err)
	assert.Contains(t, out, "1 records")
	assert.NotContains(t, out, "John Roe")
}

func TestRecordsFilterByEmployee(t *testing.T) {
	sess, _, _ := setupSession(t)
	seedRecords(t, sess)

	out, err := execRecords(sess.ledger, "", " Jane  Doe ")

	require.NoError(t, err)
	assert.Contains(t, out, "2 records")
	assert.NotContains(t, out, "John Roe")
}

func TestRecordsFilterNoMatch(t *testing.T) {
	sess, _, _ := setupSession(t)
	seedRecords(t, sess)

	out, err := execRecords(sess.ledger, "2024-01-01", "")

	require.NoError(t, err)
	assert.Contains(t, out, "No records to display yet.")
}

func TestRecordsInvalidDate(t *testing.T) {
	sess, _, _ := setupSession(t)

	_, err := execRecords(sess.ledger, "15/06/2025", "")

	var verr *attendance.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "date", verr.Field)
}

func TestRecordsStorageFailure(t *testing.T) {
	boom := errors.New("database is locked")

	_, err := execRecords(failingLister{err: boom}, "", "")
	assert.ErrorIs(t, err, boom)
}
