package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfHeaderColor = props.Color{Red: 50, Green: 50, Blue: 50}
	pdfMutedColor  = props.Color{Red: 120, Green: 120, Blue: 120}
	pdfLineColor   = props.Color{Red: 200, Green: 200, Blue: 200}
	pdfLateColor   = props.Color{Red: 190, Green: 40, Blue: 40}
)

// Grid widths (out of 12) per Header column.
var pdfColumns = []int{3, 2, 2, 2, 2, 1}

// WritePDF renders records as a printable timesheet.
func WritePDF(w io.Writer, records []attendance.Record, generatedAt time.Time) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "Attendance Records", props.Text{
			Style: fontstyle.Bold,
			Size:  16,
			Color: &pdfHeaderColor,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Generated "+generatedAt.Format("2006-01-02 15:04 MST"), props.Text{
			Size:  10,
			Color: &pdfMutedColor,
		}),
	)
	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))

	headCols := make([]core.Col, 0, len(Header))
	for i, h := range Header {
		headCols = append(headCols, text.NewCol(pdfColumns[i], h, props.Text{
			Style: fontstyle.Bold,
			Size:  9,
			Align: columnAlign(i),
			Color: &pdfHeaderColor,
		}))
	}
	m.AddRow(8, headCols...)

	for i, row := range Rows(records) {
		cols := make([]core.Col, 0, len(row))
		for j, cell := range row {
			p := props.Text{Size: 9, Align: columnAlign(j)}
			if j == 4 && records[i].Status != attendance.StatusOnTime {
				p.Color = &pdfLateColor
			}
			cols = append(cols, text.NewCol(pdfColumns[j], cell, p))
		}
		m.AddRow(6, cols...)
	}

	m.AddRow(4, line.NewCol(12, props.Line{Color: &pdfLineColor}))
	m.AddRow(10,
		text.NewCol(9, fmt.Sprintf("Total (%d records)", len(records)), props.Text{
			Style: fontstyle.Bold,
			Size:  11,
			Color: &pdfHeaderColor,
		}),
		text.NewCol(3, strconv.FormatFloat(TotalExtraHours(records), 'f', 2, 64)+" h", props.Text{
			Style: fontstyle.Bold,
			Size:  11,
			Align: align.Right,
			Color: &pdfHeaderColor,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}

	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func columnAlign(i int) align.Type {
	if i == len(Header)-1 {
		return align.Right
	}
	return align.Left
}
