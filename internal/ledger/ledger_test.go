package ledger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june15 = attendance.Date{Year: 2025, Month: time.June, Day: 15}

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), filepath.Join(t.TempDir(), "attendance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func punchedIn(name string, date attendance.Date) attendance.Record {
	return attendance.Record{
		EmployeeName: name,
		WorkDate:     date,
		PunchIn:      attendance.TimeOfDay{Hour: 9, Minute: 58, Second: 12},
		Status:       attendance.StatusOnTime,
	}
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	rec := punchedIn("Jane Doe", june15)
	require.NoError(t, l.Insert(ctx, rec))

	got, found, err := l.Find(ctx, "Jane Doe", june15)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, rec, got)
}

func TestFindMissingIsNotAnError(t *testing.T) {
	l := openTestLedger(t)

	_, found, err := l.Find(context.Background(), "Nobody", june15)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInsertDuplicate(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	first := punchedIn("Jane Doe", june15)
	require.NoError(t, l.Insert(ctx, first))

	second := punchedIn("Jane Doe", june15)
	second.PunchIn = attendance.TimeOfDay{Hour: 11, Minute: 0, Second: 0}
	second.Status = attendance.StatusLate
	err := l.Insert(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateRecord)

	got, _, err := l.Find(ctx, "Jane Doe", june15)
	require.NoError(t, err)
	assert.Equal(t, first, got)
}

func TestInsertSameEmployeeDifferentDays(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", june15)))
	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", attendance.Date{Year: 2025, Month: time.June, Day: 16})))

	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInsertEmptyName(t *testing.T) {
	l := openTestLedger(t)

	err := l.Insert(context.Background(), punchedIn("", june15))
	assert.ErrorIs(t, err, attendance.ErrEmptyName)
}

func TestUpdatePunchOut(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)
	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", june15)))

	out := attendance.TimeOfDay{Hour: 19, Minute: 30, Second: 0}
	require.NoError(t, l.UpdatePunchOut(ctx, "Jane Doe", june15, out, attendance.StatusOnTime, 0.5))

	got, found, err := l.Find(ctx, "Jane Doe", june15)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got.PunchOut)
	assert.Equal(t, out, *got.PunchOut)
	assert.Equal(t, attendance.StatusOnTime, got.Status)
	assert.InDelta(t, 0.5, got.ExtraHours, 1e-9)
	assert.Equal(t, attendance.TimeOfDay{Hour: 9, Minute: 58, Second: 12}, got.PunchIn)
}

func TestUpdatePunchOutMissingRecord(t *testing.T) {
	l := openTestLedger(t)

	err := l.UpdatePunchOut(context.Background(), "Jane Doe", june15,
		attendance.TimeOfDay{Hour: 19}, attendance.StatusOnTime, 0)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	all, err := l.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdatePunchOutOnlyOnce(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)
	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", june15)))

	first := attendance.TimeOfDay{Hour: 18, Minute: 0, Second: 0}
	require.NoError(t, l.UpdatePunchOut(ctx, "Jane Doe", june15, first, attendance.StatusEarlyOut, 0))

	err := l.UpdatePunchOut(ctx, "Jane Doe", june15,
		attendance.TimeOfDay{Hour: 20}, attendance.StatusOnTime, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	got, _, err := l.Find(ctx, "Jane Doe", june15)
	require.NoError(t, err)
	assert.Equal(t, first, *got.PunchOut)
	assert.Equal(t, attendance.StatusEarlyOut, got.Status)
	assert.Zero(t, got.ExtraHours)
}

func TestAllRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)

	var want []attendance.Record
	for i := 0; i < 5; i++ {
		rec := punchedIn(fmt.Sprintf("Employee %d", 5-i), june15)
		rec.PunchIn = attendance.TimeOfDay{Hour: 9, Minute: i * 10, Second: i}
		if i%2 == 0 {
			out := attendance.TimeOfDay{Hour: 19, Minute: 10 * i, Second: 0}
			rec.PunchOut = &out
			rec.ExtraHours = float64(i) * 0.25
		}
		if i == 3 {
			rec.Status = attendance.StatusLate
		}
		require.NoError(t, l.Insert(ctx, rec))
		want = append(want, rec)
	}

	got, err := l.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAllReturnsCopies(t *testing.T) {
	ctx := context.Background()
	l := openTestLedger(t)
	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", june15)))

	first, err := l.All(ctx)
	require.NoError(t, err)
	first[0].Status = attendance.StatusLate

	second, err := l.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnTime, second[0].Status)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "attendance.db")

	l, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", june15)))
	require.NoError(t, l.Close())

	l, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	_, found, err := l.Find(ctx, "Jane Doe", june15)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestMemoryLedger(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	require.NoError(t, l.Insert(ctx, punchedIn("Jane Doe", june15)))
	all, err := l.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCorruptRowSurfacesStorageError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "attendance.db")
	l, err := Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO attendance (employee_name, work_date, punch_in_time, status)
		VALUES ('Jane Doe', '2025-06-15', 'garbage', 'On Time');`)
	require.NoError(t, err)

	_, _, err = l.Find(ctx, "Jane Doe", june15)
	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "find record", serr.Op)
}

func TestClosedLedgerSurfacesStorageError(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, filepath.Join(t.TempDir(), "attendance.db"))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	err = l.Insert(ctx, punchedIn("Jane Doe", june15))
	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "insert record", serr.Op)
}
