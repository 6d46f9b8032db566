package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/kiosk"
	"github.com/spf13/cobra"
)

var punchInCmd = LeafCommand{
	Use:     "in <name>",
	Short:   "Punch in for today",
	Example: "punchclock in Jane Doe",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()
		return runPunch(commandContext(cmd), cmd.OutOrStdout(), sess.service, kiosk.ActionPunchIn, strings.Join(args, " "))
	},
}.Build()

var punchOutCmd = LeafCommand{
	Use:     "out <name>",
	Short:   "Punch out for today",
	Example: "punchclock out Jane Doe",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()
		return runPunch(commandContext(cmd), cmd.OutOrStdout(), sess.service, kiosk.ActionPunchOut, strings.Join(args, " "))
	},
}.Build()

// runPunch performs action and prints the outcome. Rejections by the punch
// state machine are printed and return nil; anything else is returned.
func runPunch(ctx context.Context, w io.Writer, svc *kiosk.Service, action kiosk.Action, rawName string) error {
	var (
		res kiosk.Result
		err error
	)
	switch action {
	case kiosk.ActionPunchIn:
		res, err = svc.PunchIn(ctx, rawName)
	case kiosk.ActionPunchOut:
		res, err = svc.PunchOut(ctx, rawName)
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	if err != nil {
		if attendance.IsRejection(err) {
			name, _ := attendance.NormalizeName(rawName)
			_, _ = fmt.Fprintln(w, Warning(userMessage(err, name)))
			return nil
		}
		return err
	}

	printResult(w, res)
	return nil
}

func printResult(w io.Writer, res kiosk.Result) {
	rec := res.Record
	when := Silent(res.At.Format("Monday, 02 Jan 2006 (MST)"))
	if res.Action == kiosk.ActionPunchIn {
		_, _ = fmt.Fprintf(w, "Punch In Successful for %s at %s! Status: %s\n",
			Primary(rec.EmployeeName), rec.PunchIn, Status(rec.Status))
		_, _ = fmt.Fprintln(w, when)
		return
	}

	if rec.ExtraHours > 0 {
		_, _ = fmt.Fprintln(w, Info(fmt.Sprintf("You have worked an extra %.2f hours!", rec.ExtraHours)))
	}
	_, _ = fmt.Fprintf(w, "Punch Out Successful for %s at %s! Status: %s\n",
		Primary(rec.EmployeeName), rec.PunchOut, Status(rec.Status))
	_, _ = fmt.Fprintln(w, when)
}
