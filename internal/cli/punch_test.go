package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/kiosk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPunchInSuccess(t *testing.T) {
	sess, clock, _ := setupSession(t)
	clock.set(9, 58, 12)

	out, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "Punch In Successful for Jane Doe at 09:58:12! Status: On Time")
	assert.Contains(t, out, "Sunday, 15 Jun 2025 (IST)")
}

func TestPunchReportsDateInReferenceZone(t *testing.T) {
	sess, clock, _ := setupSession(t)
	// 20:00 UTC on the 15th is 01:30 on the 16th in Asia/Kolkata.
	clock.now = time.Date(2025, time.June, 15, 20, 0, 0, 0, time.UTC)

	out, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "at 01:30:00!")
	assert.Contains(t, out, "Monday, 16 Jun 2025 (IST)")
}

func TestPunchInLate(t *testing.T) {
	sess, clock, _ := setupSession(t)
	clock.set(10, 15, 1)

	out, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "Status: Late")
}

func TestPunchInTwiceIsRejectedWithoutError(t *testing.T) {
	sess, clock, _ := setupSession(t)
	_, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")
	require.NoError(t, err)

	clock.set(11, 0, 0)
	out, err := execPunch(t, sess, kiosk.ActionPunchIn, "  Jane   Doe ")

	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe, you have already punched in today.")

	rec, found, err := sess.ledger.Find(context.Background(), "Jane Doe", testDay)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "10:00:00", rec.PunchIn.String())
}

func TestPunchOutWithoutPunchIn(t *testing.T) {
	sess, clock, _ := setupSession(t)
	clock.set(19, 0, 0)

	out, err := execPunch(t, sess, kiosk.ActionPunchOut, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "You have not punched in yet today. Please punch in first.")

	all, err := sess.ledger.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPunchOutWithOvertime(t *testing.T) {
	sess, clock, _ := setupSession(t)
	_, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")
	require.NoError(t, err)

	clock.set(19, 30, 0)
	out, err := execPunch(t, sess, kiosk.ActionPunchOut, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "You have worked an extra 0.50 hours!")
	assert.Contains(t, out, "Punch Out Successful for Jane Doe at 19:30:00! Status: On Time")
	assert.Contains(t, out, "Sunday, 15 Jun 2025 (IST)")
}

func TestPunchOutEarly(t *testing.T) {
	sess, clock, _ := setupSession(t)
	_, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")
	require.NoError(t, err)

	clock.set(18, 44, 59)
	out, err := execPunch(t, sess, kiosk.ActionPunchOut, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "Status: Early Out")
	assert.NotContains(t, out, "extra")
}

func TestPunchOutTwiceIsRejectedWithoutError(t *testing.T) {
	sess, clock, _ := setupSession(t)
	_, err := execPunch(t, sess, kiosk.ActionPunchIn, "Jane Doe")
	require.NoError(t, err)
	clock.set(19, 0, 0)
	_, err = execPunch(t, sess, kiosk.ActionPunchOut, "Jane Doe")
	require.NoError(t, err)

	clock.set(20, 0, 0)
	out, err := execPunch(t, sess, kiosk.ActionPunchOut, "Jane Doe")

	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe, you have already punched out today.")

	rec, _, err := sess.ledger.Find(context.Background(), "Jane Doe", testDay)
	require.NoError(t, err)
	require.NotNil(t, rec.PunchOut)
	assert.Equal(t, "19:00:00", rec.PunchOut.String())
	assert.Zero(t, rec.ExtraHours)
}

func TestPunchEmptyNameIsValidationError(t *testing.T) {
	sess, _, _ := setupSession(t)

	for _, action := range []kiosk.Action{kiosk.ActionPunchIn, kiosk.ActionPunchOut} {
		out, err := execPunch(t, sess, action, "   ")

		require.Error(t, err)
		assert.True(t, errors.Is(err, attendance.ErrEmptyName))
		var verr *attendance.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Empty(t, out)
	}
}

func TestPunchUnknownAction(t *testing.T) {
	sess, _, _ := setupSession(t)

	_, err := execPunch(t, sess, kiosk.Action("lunch"), "Jane Doe")
	assert.Error(t, err)
}
