package interfaces

import (
	"bytes"
	"errors"
	"testing"

	charting "energy-dashboard/internal/charting/domain"
)

func fptr(v float64) *float64 { return &v }

func sampleResult() *charting.Result {
	return &charting.Result{
		XAxis:       []string{"Jan 2025", "Feb 2025"},
		XAxisLabel:  "Month",
		SeriesOrder: []string{"School Day", "Weekend"},
		Series: map[string][]*float64{
			"School Day": {fptr(120), fptr(110)},
			"Weekend":    {fptr(30), nil},
		},
		SeriesTotals: map[string]float64{"School Day": 230, "Weekend": 30},
		GrandTotal:   260,
		TitleSummary: "260 kWh",
		Warnings:     []string{"skipped Oak Lane 1 Mar 24 - 28 Mar 24: not enough data"},
	}
}

func TestBuildResultXLSX(t *testing.T) {
	data, err := BuildResultXLSX("monthly_electricity", sampleResult())
	if err != nil {
		t.Fatalf("xlsx export: %v", err)
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(data, []byte{'P', 'K'}) {
		t.Fatal("expected a zip-packaged workbook")
	}
}

func TestBuildResultPDF(t *testing.T) {
	data, err := BuildResultPDF("monthly_electricity", sampleResult())
	if err != nil {
		t.Fatalf("pdf export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected a PDF header")
	}
}

func TestExportRejectsEmptyResult(t *testing.T) {
	empty := &charting.Result{}
	if _, err := BuildResultXLSX("empty", empty); !errors.Is(err, charting.ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}
	if _, err := BuildResultPDF("empty", empty); !errors.Is(err, charting.ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}
}
