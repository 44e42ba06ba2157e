package interfaces

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	charting "energy-dashboard/internal/charting/domain"
)

// BuildResultXLSX renders an aggregated chart result as a workbook: one
// summary sheet and one data sheet with a column per x-axis bucket.
func BuildResultXLSX(name string, result *charting.Result) ([]byte, error) {
	if !result.Valid() {
		return nil, fmt.Errorf("%w: nothing to export for %q", charting.ErrNotEnoughData, name)
	}

	f := excelize.NewFile()
	summarySheet := "summary"
	dataSheet := "data"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(dataSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Chart")
	_ = f.SetCellValue(summarySheet, "B1", name)
	_ = f.SetCellValue(summarySheet, "A2", "X Axis")
	_ = f.SetCellValue(summarySheet, "B2", result.XAxisLabel)
	_ = f.SetCellValue(summarySheet, "A3", "Total")
	_ = f.SetCellValue(summarySheet, "B3", result.TitleSummary)
	_ = f.SetCellValue(summarySheet, "A5", "Series")
	_ = f.SetCellValue(summarySheet, "B5", "Total")
	for i, series := range result.SeriesOrder {
		row := 6 + i
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), series)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), result.SeriesTotals[series])
	}
	if len(result.Warnings) > 0 {
		row := 7 + len(result.SeriesOrder)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Warnings")
		for i, warning := range result.Warnings {
			_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row+i), warning)
		}
	}

	_ = f.SetCellValue(dataSheet, "A1", result.XAxisLabel)
	for i, label := range result.XAxis {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		_ = f.SetCellValue(dataSheet, cell, label)
	}
	row := 2
	writeSeries := func(series string, values []*float64) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(dataSheet, cell, series)
		for i, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+2, row)
			_ = f.SetCellValue(dataSheet, cell, *v)
		}
		row++
	}
	for _, series := range result.SeriesOrder {
		writeSeries(series, result.Series[series])
	}
	for series, values := range result.Y2 {
		writeSeries(series, values)
	}
	if len(result.DataLabels) > 0 {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(dataSheet, cell, "Point Labels")
		for i, label := range result.DataLabels {
			cell, _ := excelize.CoordinatesToCellName(i+2, row)
			_ = f.SetCellValue(dataSheet, cell, label)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildResultPDF renders an aggregated chart result as a tabular PDF.
func BuildResultPDF(name string, result *charting.Result) ([]byte, error) {
	if !result.Valid() {
		return nil, fmt.Errorf("%w: nothing to export for %q", charting.ErrNotEnoughData, name)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, fmt.Sprintf("Chart: %s", name))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("X Axis: %s", result.XAxisLabel))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %s", result.TitleSummary))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(70, 6, "Series", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Buckets", "1", 0, "R", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, series := range result.SeriesOrder {
		pdf.CellFormat(70, 6, series, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", result.SeriesTotals[series]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", len(result.Series[series])), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	for _, warning := range result.Warnings {
		pdf.Ln(2)
		pdf.Cell(0, 5, fmt.Sprintf("Warning: %s", warning))
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
