package batches

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const SummarySheet = "Summary"

// XLSXSink buffers records and writes the workbook on Close:
// one sheet per agent type in arrival order, then the summary.
type XLSXSink struct {
	path    string
	records []Record
}

var _ Sink = new(XLSXSink)

func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{
		path: path,
	}
}

func (x *XLSXSink) Add(record Record) error {
	x.records = append(x.records, record)
	return nil
}

var summaryHeader = []any{
	"agent_type",
	"# Correct",
	"# Total",
	"# Failed",
	"Accuracy (%)",
	"Avg Steps",
	"Avg Confidence",
}

func (x *XLSXSink) Close() error {
	f := excelize.NewFile()
	defer f.Close()

	rows := make(map[string]int)
	for _, record := range x.records {
		sheet := record.AgentType
		row, ok := rows[sheet]
		if !ok {
			if _, err := f.NewSheet(sheet); err != nil {
				return wrap(err)
			}
			headerCells := make([]any, 0, len(header))
			for _, h := range header {
				headerCells = append(headerCells, h)
			}
			if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
				return wrap(err)
			}
			row = 1
		}
		row++
		rows[sheet] = row
		cells := record.cells()
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &cells); err != nil {
			return wrap(err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return wrap(err)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return wrap(err)
	}
	for i, summary := range Summarize(x.records) {
		cells := []any{
			summary.AgentType,
			summary.Correct,
			summary.Total,
			summary.Failed,
			summary.Accuracy,
			summary.AvgSteps,
			summary.AvgConfidence,
		}
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return wrap(err)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return wrap(err)
	}

	if err := f.SaveAs(x.path); err != nil {
		return wrap(err)
	}
	return nil
}
