package rowio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/LegionFenix/The-TGAM1-Data-Collector/internal/metrics"
)

// ReadAll loads every Row from r. A leading header line is skipped if
// present; a file without one is read from its first line as data.
// Lines that fail to parse are skipped (not aborted); CRLF and LF line
// endings are both tolerated.
func ReadAll(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1 // tolerate ragged/legacy rows; validated per-field below
	cr.LazyQuotes = true

	var rows []Row
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed CSV line (e.g. bad quoting) is skipped, not fatal.
			metrics.IncRowsSkipped()
			continue
		}
		if first {
			first = false
			if looksLikeHeader(record) {
				continue
			}
		}
		row, ok := parseRow(record)
		if !ok {
			metrics.IncRowsSkipped()
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func looksLikeHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "Timestamp")
}

func parseRow(record []string) (Row, bool) {
	if len(record) != len(Header) {
		return Row{}, false
	}
	ts, err := time.Parse(TimestampLayout, strings.TrimSpace(record[0]))
	if err != nil {
		return Row{}, false
	}
	ints := make([]int64, 0, 13)
	for _, field := range record[1:] {
		v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return Row{}, false
		}
		ints = append(ints, v)
	}
	return Row{
		Timestamp:     ts,
		Attention:     int(ints[0]),
		Meditation:    int(ints[1]),
		PoorSignal:    int(ints[2]),
		RawWave:       int(ints[3]),
		SignalQuality: int(ints[4]),
		Delta:         ints[5],
		Theta:         ints[6],
		LowAlpha:      ints[7],
		HighAlpha:     ints[8],
		LowBeta:       ints[9],
		HighBeta:      ints[10],
		LowGamma:      ints[11],
		MidGamma:      ints[12],
	}, true
}
