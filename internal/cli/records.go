package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/export"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// recordLister reads the whole ledger.
type recordLister interface {
	All(ctx context.Context) ([]attendance.Record, error)
}

var recordsCmd = LeafCommand{
	Use:     "records",
	Aliases: []string{"ls"},
	Short:   "List attendance records",
	Args:    cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "date", Shorthand: "d", Usage: "only show this day (YYYY-MM-DD)"},
		{Name: "employee", Shorthand: "e", Usage: "only show this employee"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()

		dateFlag, _ := cmd.Flags().GetString("date")
		employeeFlag, _ := cmd.Flags().GetString("employee")
		return runRecords(commandContext(cmd), cmd.OutOrStdout(), sess.ledger, dateFlag, employeeFlag)
	},
}.Build()

func runRecords(ctx context.Context, w io.Writer, lister recordLister, dateFlag, employeeFlag string) error {
	records, err := loadRecords(ctx, lister, dateFlag, employeeFlag)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No records to display yet."))
		return nil
	}

	_, _ = fmt.Fprintln(w, renderRecordsTable(records))
	_, _ = fmt.Fprintf(w, "%s  %s\n",
		Silent(fmt.Sprintf("%d records", len(records))),
		Text(fmt.Sprintf("%.2f extra hours", export.TotalExtraHours(records))),
	)
	return nil
}

// loadRecords reads the ledger and applies the optional day and employee
// filters.
func loadRecords(ctx context.Context, lister recordLister, dateFlag, employeeFlag string) ([]attendance.Record, error) {
	var day attendance.Date
	if dateFlag != "" {
		d, err := attendance.ParseDate(dateFlag)
		if err != nil {
			return nil, &attendance.ValidationError{Field: "date", Err: err}
		}
		day = d
	}

	var employee string
	if employeeFlag != "" {
		name, err := attendance.NormalizeName(employeeFlag)
		if err != nil {
			return nil, err
		}
		employee = name
	}

	all, err := lister.All(ctx)
	if err != nil {
		return nil, err
	}

	if day.IsZero() && employee == "" {
		return all, nil
	}
	filtered := make([]attendance.Record, 0, len(all))
	for _, r := range all {
		if !day.IsZero() && r.WorkDate != day {
			continue
		}
		if employee != "" && r.EmployeeName != employee {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func renderRecordsTable(records []attendance.Record) string {
	rows := export.Rows(records)
	statusCol := len(export.Header) - 2

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(silentStyle).
		Headers("Employee", "Date", "In", "Out", "Status", "Extra").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == statusCol && row < len(records) && records[row].Status != attendance.StatusOnTime:
				return cell.Inherit(warningStyle)
			case col == len(export.Header)-1:
				return cell.Align(lipgloss.Right)
			}
			return cell
		})

	return t.Render()
}
