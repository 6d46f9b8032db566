package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/export"
	"github.com/spf13/cobra"
)

const (
	formatXLSX = "xlsx"
	formatPDF  = "pdf"
)

var exportCmd = LeafCommand{
	Use:   "export",
	Short: "Export attendance records to a spreadsheet or PDF",
	Args:  cobra.NoArgs,
	StrFlags: []StringFlag{
		{Name: "format", Shorthand: "f", Usage: "file format: xlsx or pdf", Default: formatXLSX},
		{Name: "output", Shorthand: "o", Usage: "output file (default attendance_records.<format>)"},
		{Name: "date", Shorthand: "d", Usage: "only export this day (YYYY-MM-DD)"},
		{Name: "employee", Shorthand: "e", Usage: "only export this employee"},
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()

		formatFlag, _ := cmd.Flags().GetString("format")
		outputFlag, _ := cmd.Flags().GetString("output")
		dateFlag, _ := cmd.Flags().GetString("date")
		employeeFlag, _ := cmd.Flags().GetString("employee")
		return runExport(commandContext(cmd), cmd.OutOrStdout(), sess.ledger,
			exportOptions{
				format:   formatFlag,
				output:   outputFlag,
				date:     dateFlag,
				employee: employeeFlag,
			},
			func() time.Time { return sess.service.Policy().Local(time.Now()) },
		)
	},
}.Build()

type exportOptions struct {
	format   string
	output   string
	date     string
	employee string
}

func runExport(ctx context.Context, w io.Writer, lister recordLister, opts exportOptions, nowFn func() time.Time) error {
	format := strings.ToLower(strings.TrimSpace(opts.format))
	if format != formatXLSX && format != formatPDF {
		return &attendance.ValidationError{Field: "format", Err: fmt.Errorf("%q is not xlsx or pdf", opts.format)}
	}

	records, err := loadRecords(ctx, lister, opts.date, opts.employee)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, Silent("No records to export yet."))
		return nil
	}

	path := opts.output
	if path == "" {
		path = export.DefaultXLSXName
		if format == formatPDF {
			path = export.DefaultPDFName
		}
	}

	if err := writeExport(path, format, records, nowFn()); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "exported %s to %s\n",
		Primary(fmt.Sprintf("%d records", len(records))), Text(path))
	return nil
}

// writeExport creates path and renders records into it. A partially
// written file is removed.
func writeExport(path, format string, records []attendance.Record, generatedAt time.Time) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if format == formatPDF {
		err = export.WritePDF(f, records, generatedAt)
	} else {
		err = export.WriteXLSX(f, records)
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}
