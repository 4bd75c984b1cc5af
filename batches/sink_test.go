package batches

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/reusee/sleuth/decisions"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []Record {
	return []Record{
		{
			RunID:       uuid.New(),
			AgentType:   "naive",
			Run:         1,
			File:        "professor_attributes.json",
			Floorplan:   3,
			GroundTruth: decisions.Professor,
			Prediction:  decisions.Professor,
			Confidence:  8.5,
			Steps:       6,
			Correct:     true,
			Outcome:     "stopped_confident",
		},
		{
			RunID:       uuid.New(),
			AgentType:   "cot_map",
			Run:         1,
			File:        "assassin_attributes.json",
			Floorplan:   1,
			GroundTruth: decisions.Assassin,
			Error:       "environment fault",
		},
		{
			RunID:       uuid.New(),
			AgentType:   "naive",
			Run:         2,
			File:        "assassin_attributes.json",
			Floorplan:   1,
			GroundTruth: decisions.Assassin,
			Prediction:  decisions.Student,
			Confidence:  4,
			Steps:       12,
			Outcome:     "stopped_explicit",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestCSVSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	sink, err := NewCSVSink(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, record := range sampleRecords() {
		if err := sink.Add(record); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	combined := readCSV(t, filepath.Join(dir, CombinedCSVName))
	if len(combined) != 4 {
		t.Fatalf("got %v", combined)
	}
	if combined[0][0] != "run_id" {
		t.Fatalf("got %v", combined[0])
	}

	naive := readCSV(t, filepath.Join(dir, AgentCSVName("naive")))
	if len(naive) != 3 {
		t.Fatalf("got %v", naive)
	}
	if naive[1][6] != "professor" || naive[1][7] != "8.5" || naive[1][9] != "true" {
		t.Fatalf("got %v", naive[1])
	}
	if naive[2][8] != "12" {
		t.Fatalf("got %v", naive[2])
	}

	cotMap := readCSV(t, filepath.Join(dir, AgentCSVName("cot_map")))
	if len(cotMap) != 2 {
		t.Fatalf("got %v", cotMap)
	}
	if cotMap[1][11] != "environment fault" {
		t.Fatalf("got %v", cotMap[1])
	}
}

func TestXLSXSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	sink := NewXLSXSink(path)
	for _, record := range sampleRecords() {
		if err := sink.Add(record); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 {
		t.Fatalf("got %v", sheets)
	}
	if sheets[0] != "naive" || sheets[1] != "cot_map" || sheets[2] != SummarySheet {
		t.Fatalf("got %v", sheets)
	}

	rows, err := f.GetRows("naive")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %v", rows)
	}
	if rows[1][1] != "naive" || rows[2][6] != "student" {
		t.Fatalf("got %v", rows)
	}

	summary, err := f.GetRows(SummarySheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 3 {
		t.Fatalf("got %v", summary)
	}
	// sorted by agent type
	if summary[1][0] != "cot_map" || summary[1][3] != "1" {
		t.Fatalf("got %v", summary[1])
	}
	if summary[2][0] != "naive" || summary[2][1] != "1" || summary[2][2] != "2" {
		t.Fatalf("got %v", summary[2])
	}
}

func TestSinks(t *testing.T) {
	a := new(MemorySink)
	b := new(MemorySink)
	sinks := Sinks{a, b}
	for _, record := range sampleRecords() {
		if err := sinks.Add(record); err != nil {
			t.Fatal(err)
		}
	}
	if err := sinks.Close(); err != nil {
		t.Fatal(err)
	}
	if len(a.Records()) != 3 || len(b.Records()) != 3 {
		t.Fatalf("got %v %v", len(a.Records()), len(b.Records()))
	}
}
