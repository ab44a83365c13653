package edf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/lestrrat-go/strftime"
)

const (
	mainHeaderBytes   = 256
	signalHeaderBytes = 256
)

// Write emits the EDF 1985 file for signals, starting at start, to w. It
// assumes signals[0] is the pacing signal: n_records is derived from its
// sample count and samples_per_record.
func Write(w io.Writer, signals []Signal, start time.Time, dataRecordDuration float64) error {
	if len(signals) == 0 {
		return fmt.Errorf("edf: no signals to write")
	}

	nRecords := nDataRecords(signals[0])
	bw := bufio.NewWriter(w)

	if err := writeMainHeader(bw, signals, start, dataRecordDuration, nRecords); err != nil {
		return fmt.Errorf("edf: write main header: %w", err)
	}
	if err := writeSignalHeaders(bw, signals); err != nil {
		return fmt.Errorf("edf: write signal headers: %w", err)
	}
	if err := writeDataRecords(bw, signals, nRecords); err != nil {
		return fmt.Errorf("edf: write data records: %w", err)
	}
	return bw.Flush()
}

func nDataRecords(pacing Signal) int {
	if pacing.SamplesPerRecord <= 0 {
		return 0
	}
	n := len(pacing.Data) / pacing.SamplesPerRecord
	if len(pacing.Data)%pacing.SamplesPerRecord != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

func writeMainHeader(w *bufio.Writer, signals []Signal, start time.Time, dataRecordDuration float64, nRecords int) error {
	ns := len(signals)
	headerBytes := mainHeaderBytes + signalHeaderBytes*ns

	startDate, err := strftime.Format("%d.%m.%y", start)
	if err != nil {
		return err
	}
	recordingDate, err := strftime.Format("%d.%m.%Y", start)
	if err != nil {
		return err
	}
	startTime, err := strftime.Format("%H.%M.%S", start)
	if err != nil {
		return err
	}

	fields := []field{
		{8, "0"},
		{80, "NeuroSky EEG Recording"},
		{80, "StartDate: " + recordingDate},
		{8, startDate},
		{8, startTime},
		{8, fmt.Sprintf("%d", headerBytes)},
		{44, ""},
		{8, fmt.Sprintf("%d", nRecords)},
		{8, fmt.Sprintf("%.2f", dataRecordDuration)},
		{4, fmt.Sprintf("%d", ns)},
	}
	return writeFields(w, fields)
}

type field struct {
	width int
	value string
}

func writeFields(w *bufio.Writer, fields []field) error {
	for _, f := range fields {
		if _, err := w.WriteString(padRight(f.value, f.width)); err != nil {
			return err
		}
	}
	return nil
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	b := make([]byte, width)
	copy(b, s)
	for i := len(s); i < width; i++ {
		b[i] = ' '
	}
	return string(b)
}

// writeSignalHeaders emits each header field contiguously across all
// signals, per the EDF 1985 layout (all labels, then all transducers, ...).
func writeSignalHeaders(w *bufio.Writer, signals []Signal) error {
	col := func(width int, get func(Signal) string) error {
		for _, s := range signals {
			if _, err := w.WriteString(padRight(get(s), width)); err != nil {
				return err
			}
		}
		return nil
	}

	cols := []struct {
		width int
		get   func(Signal) string
	}{
		{16, func(s Signal) string { return s.Label }},
		{80, func(s Signal) string { return s.Transducer }},
		{8, func(s Signal) string { return s.PhysicalUnit }},
		{8, func(s Signal) string { return fmt.Sprintf("%g", s.PhysMin) }},
		{8, func(s Signal) string { return fmt.Sprintf("%g", s.PhysMax) }},
		{8, func(s Signal) string { return fmt.Sprintf("%d", s.DigMin) }},
		{8, func(s Signal) string { return fmt.Sprintf("%d", s.DigMax) }},
		{80, func(s Signal) string { return s.Prefilter }},
		{8, func(s Signal) string { return fmt.Sprintf("%d", s.SamplesPerRecord) }},
		{32, func(Signal) string { return "" }},
	}
	for _, c := range cols {
		if err := col(c.width, c.get); err != nil {
			return err
		}
	}
	return nil
}

func writeDataRecords(w *bufio.Writer, signals []Signal, nRecords int) error {
	buf := make([]byte, 2)
	for r := 0; r < nRecords; r++ {
		for i := range signals {
			s := &signals[i]
			start := r * s.SamplesPerRecord
			for j := 0; j < s.SamplesPerRecord; j++ {
				var v int16
				idx := start + j
				if idx < len(s.Data) {
					v = s.Data[idx]
				}
				binary.LittleEndian.PutUint16(buf, uint16(v))
				if _, err := w.Write(buf); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
