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

var statusCmd = LeafCommand{
	Use:   "status <name>",
	Short: "Show today's attendance for an employee",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()
		return runStatus(commandContext(cmd), cmd.OutOrStdout(), sess.service, strings.Join(args, " "))
	},
}.Build()

func runStatus(ctx context.Context, w io.Writer, svc *kiosk.Service, rawName string) error {
	state, rec, err := svc.Status(ctx, rawName)
	if err != nil {
		return err
	}

	name, _ := attendance.NormalizeName(rawName)

	_, _ = fmt.Fprintf(w, "%s  %s\n", Silent("Employee:"), Primary(name))
	_, _ = fmt.Fprintf(w, "%s      %s\n", Silent("Date:"), Text(svc.Today().String()))

	switch state {
	case attendance.StateNoRecord:
		_, _ = fmt.Fprintf(w, "%s     %s\n", Silent("State:"), Warning("not punched in"))
	case attendance.StatePunchedIn:
		_, _ = fmt.Fprintf(w, "%s     %s\n", Silent("State:"), Info("punched in"))
		_, _ = fmt.Fprintf(w, "%s        %s  %s\n", Silent("In:"), Text(rec.PunchIn.String()), Status(rec.Status))
	case attendance.StatePunchedOut:
		_, _ = fmt.Fprintf(w, "%s     %s\n", Silent("State:"), Info("punched out"))
		_, _ = fmt.Fprintf(w, "%s        %s\n", Silent("In:"), Text(rec.PunchIn.String()))
		_, _ = fmt.Fprintf(w, "%s       %s  %s\n", Silent("Out:"), Text(rec.PunchOut.String()), Status(rec.Status))
		if rec.ExtraHours > 0 {
			_, _ = fmt.Fprintf(w, "%s     %s\n", Silent("Extra:"),
				Text(fmt.Sprintf("%.2f hours (%s)", rec.ExtraHours, attendance.FormatHours(rec.ExtraHours))))
		}
	}
	return nil
}
