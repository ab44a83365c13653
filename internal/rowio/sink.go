package rowio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Sink appends Rows to an underlying writer with a fixed column schema.
// It writes the header on first use and flushes after every row (durability
// over throughput), matching the donor's append-and-flush-per-unit idiom.
type Sink struct {
	mu        sync.Mutex
	w         *csv.Writer
	closer    io.Closer
	wroteHead bool
}

// NewSink wraps w (and, if it implements io.Closer, closes it on Close) in a
// Sink. The delimiter is a semicolon; standard CSV double-quote escaping
// applies to any field that needs it.
func NewSink(w io.Writer) *Sink {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	closer, _ := w.(io.Closer)
	return &Sink{w: cw, closer: closer}
}

// WriteRow appends a single row and flushes immediately.
func (s *Sink) WriteRow(r Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.wroteHead {
		if err := s.w.Write(Header); err != nil {
			return fmt.Errorf("rowio: write header: %w", err)
		}
		s.wroteHead = true
	}

	record := []string{
		r.Timestamp.Format(TimestampLayout),
		strconv.Itoa(r.Attention),
		strconv.Itoa(r.Meditation),
		strconv.Itoa(r.PoorSignal),
		strconv.Itoa(r.RawWave),
		strconv.Itoa(r.SignalQuality),
		strconv.FormatInt(r.Delta, 10),
		strconv.FormatInt(r.Theta, 10),
		strconv.FormatInt(r.LowAlpha, 10),
		strconv.FormatInt(r.HighAlpha, 10),
		strconv.FormatInt(r.LowBeta, 10),
		strconv.FormatInt(r.HighBeta, 10),
		strconv.FormatInt(r.LowGamma, 10),
		strconv.FormatInt(r.MidGamma, 10),
	}
	if err := s.w.Write(record); err != nil {
		return fmt.Errorf("rowio: write row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the underlying writer, if closeable.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Flush()
	if s.closer != nil {
		return s.closer.Close()
	}
	return s.w.Error()
}
