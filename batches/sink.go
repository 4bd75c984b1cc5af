package batches

import (
	"errors"
	"slices"
	"sync"
)

// Sink receives records as episodes finish. The runner serializes calls to Add.
type Sink interface {
	Add(record Record) error
	Close() error
}

type Sinks []Sink

var _ Sink = Sinks{}

func (s Sinks) Add(record Record) error {
	for _, sink := range s {
		if err := sink.Add(record); err != nil {
			return err
		}
	}
	return nil
}

func (s Sinks) Close() error {
	var errs []error
	for _, sink := range s {
		errs = append(errs, sink.Close())
	}
	return errors.Join(errs...)
}

type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

var _ Sink = new(MemorySink)

func (m *MemorySink) Add(record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *MemorySink) Close() error {
	return nil
}

func (m *MemorySink) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}
