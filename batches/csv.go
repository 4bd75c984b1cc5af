package batches

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
)

const CombinedCSVName = "full_benchmark_results.csv"

func AgentCSVName(agentType string) string {
	return "evaluation_results_" + agentType + ".csv"
}

type csvFile struct {
	file   *os.File
	writer *csv.Writer
}

// CSVSink writes one file per agent type plus a combined file, flushing every row.
type CSVSink struct {
	dir      string
	combined *csvFile
	perAgent map[string]*csvFile
}

var _ Sink = new(CSVSink)

func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrap(err)
	}
	combined, err := createCSV(filepath.Join(dir, CombinedCSVName))
	if err != nil {
		return nil, err
	}
	return &CSVSink{
		dir:      dir,
		combined: combined,
		perAgent: make(map[string]*csvFile),
	}, nil
}

func createCSV(path string) (*csvFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, wrap(err)
	}
	ret := &csvFile{
		file:   f,
		writer: csv.NewWriter(f),
	}
	if err := ret.write(header); err != nil {
		f.Close()
		return nil, err
	}
	return ret, nil
}

func (c *csvFile) write(row []string) error {
	if err := c.writer.Write(row); err != nil {
		return wrap(err)
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return wrap(err)
	}
	return nil
}

func (c *CSVSink) Add(record Record) error {
	agentFile, ok := c.perAgent[record.AgentType]
	if !ok {
		var err error
		agentFile, err = createCSV(filepath.Join(c.dir, AgentCSVName(record.AgentType)))
		if err != nil {
			return err
		}
		c.perAgent[record.AgentType] = agentFile
	}
	row := record.row()
	if err := agentFile.write(row); err != nil {
		return err
	}
	return c.combined.write(row)
}

func (c *CSVSink) Close() error {
	errs := []error{c.combined.file.Close()}
	for _, f := range c.perAgent {
		errs = append(errs, f.file.Close())
	}
	return errors.Join(errs...)
}
