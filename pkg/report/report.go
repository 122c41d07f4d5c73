// Package report renders solver results as console tables and .xlsx
// workbooks.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aweijnitz/synth-calculators/pkg/solver"
	"github.com/aweijnitz/synth-calculators/pkg/util"
)

var candidateHeaders = []string{"Rank", "C1", "C2", "R1", "R2", "fc", "Q"}

// CandidateRows flattens the winner and runners-up into printable rows.
func CandidateRows(res *solver.Result) [][]string {
	rows := make([][]string, 0, 1+len(res.RunnersUp))
	rows = append(rows, candidateRow(1, res.C1, res.C2, res.R1, res.R2, res.FcActual, res.QActual))
	for i, c := range res.RunnersUp {
		rows = append(rows, candidateRow(i+2, c.C1, c.C2, c.R1, c.R2, c.Fc, c.Q))
	}
	return rows
}

func candidateRow(rank int, c1, c2, r1, r2, fc, q float64) []string {
	return []string{
		fmt.Sprintf("%d", rank),
		util.FormatCapacitance(c1),
		util.FormatCapacitance(c2),
		util.FormatResistance(r1),
		util.FormatResistance(r2),
		strings.TrimSpace(util.FormatFrequency(fc)),
		fmt.Sprintf("%.4g", q),
	}
}

// PrintTable writes a bordered fixed-width table. Column widths follow the
// widest of header and cells.
func PrintTable(w io.Writer, title string, headers []string, rows [][]string) {
	fmt.Fprintln(w, title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for j, cell := range row {
			if j < len(widths) && len(cell) > widths[j] {
				widths[j] = len(cell)
			}
		}
	}

	printLine := func() {
		fmt.Fprint(w, "+")
		for _, width := range widths {
			fmt.Fprint(w, strings.Repeat("-", width+2)+"+")
		}
		fmt.Fprintln(w)
	}

	printLine()
	fmt.Fprint(w, "|")
	for i, h := range headers {
		fmt.Fprintf(w, " %-*s |", widths[i], h)
	}
	fmt.Fprintln(w)
	printLine()

	for _, row := range rows {
		fmt.Fprint(w, "|")
		for j, cell := range row {
			fmt.Fprintf(w, " %*s |", widths[j], cell)
		}
		fmt.Fprintln(w)
	}
	printLine()
}

// PrintCandidates writes the ranked candidate table for a result.
func PrintCandidates(w io.Writer, res *solver.Result) {
	PrintTable(w, "=== Candidates ===", candidateHeaders, CandidateRows(res))
}

// WriteXLSX saves a workbook with a Summary sheet (target vs. achieved) and
// a Candidates sheet (ranked winner plus runners-up, raw SI values).
func WriteXLSX(filename string, target solver.Target, res *solver.Result) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	f.SetCellValue(summary, "A1", "Field")
	f.SetCellValue(summary, "B1", "Value")

	summaryRows := []struct {
		name  string
		value interface{}
	}{
		{"fc target (Hz)", target.Fc},
		{"Q target", target.Q},
		{"fc actual (Hz)", res.FcActual},
		{"Q actual", res.QActual},
		{"fc deviation", res.FcDeviation},
		{"within tolerance", res.WithinTolerance},
		{"C1 (F)", res.C1},
		{"C2 (F)", res.C2},
		{"R1 (Ohm)", res.R1},
		{"R2 (Ohm)", res.R2},
	}
	for i, row := range summaryRows {
		f.SetCellValue(summary, fmt.Sprintf("A%d", i+2), row.name)
		f.SetCellValue(summary, fmt.Sprintf("B%d", i+2), row.value)
	}

	sheet := "Candidates"
	f.NewSheet(sheet)

	for col, h := range candidateHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	writeCandidate := func(row, rank int, c1, c2, r1, r2, fc, q float64) {
		values := []interface{}{rank, c1, c2, r1, r2, fc, q}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	writeCandidate(2, 1, res.C1, res.C2, res.R1, res.R2, res.FcActual, res.QActual)
	for i, c := range res.RunnersUp {
		writeCandidate(i+3, i+2, c.C1, c.C2, c.R1, c.R2, c.Fc, c.Q)
	}

	return f.SaveAs(filename)
}
