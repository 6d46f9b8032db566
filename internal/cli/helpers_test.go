package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/kiosk"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+30*60)

var testDay = attendance.Date{Year: 2025, Month: time.June, Day: 15}

// testClock is a settable replacement for time.Now.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) set(hour, min, sec int) {
	c.now = time.Date(2025, time.June, 15, hour, min, sec, 0, ist)
}

// setupSession opens a session rooted at a temporary home directory with the
// default configuration.
func setupSession(t *testing.T) (*session, *testClock, string) {
	t.Helper()
	homeDir := t.TempDir()

	clock := &testClock{}
	clock.set(10, 0, 0)

	sess, err := newSession(context.Background(), homeDir, sessionOptions{stderr: io.Discard}, clock.Now)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })
	return sess, clock, homeDir
}

func execPunch(t *testing.T, sess *session, action kiosk.Action, name string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	err := runPunch(context.Background(), buf, sess.service, action, name)
	return buf.String(), err
}
