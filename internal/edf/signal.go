package edf

import "math"

// Signal is one EDF channel descriptor plus its sample data. Physical holds
// the resampled physical-unit values (component H's output); Data holds the
// scaled digital values (component I's output) that are actually written to
// the EDF file. Physical is wide enough to hold raw ASIC band powers
// (up to 24-bit unsigned) without truncation ahead of scaling.
//
// Invariants: PhysMax > PhysMin, DigMax > DigMin, SamplesPerRecord > 0. Data
// itself is not padded; when len(Data) is not a multiple of SamplesPerRecord,
// Write zero-fills the tail of the last data record.
type Signal struct {
	Label            string
	Transducer       string
	PhysicalUnit     string
	PhysMin          float64
	PhysMax          float64
	DigMin           int
	DigMax           int
	Prefilter        string
	SamplesPerRecord int
	Physical         []float64
	Data             []int16
}

// SignalIndex names the fixed channel order produced by BuildSignals.
const (
	SignalRaw = iota
	SignalAttention
	SignalMeditation
	SignalQuality
	SignalDelta
	SignalTheta
	SignalLowAlpha
	SignalHighAlpha
	SignalLowBeta
	SignalHighBeta
	SignalLowGamma
	SignalMidGamma
	numSignals
)

// bandInfo pairs a band's display label with the frequency range quoted in
// its EDF prefilter field.
type bandInfo struct {
	label string
	freq  string
}

var bandInfos = [8]bandInfo{
	{"EEG Delta", "0.5-2.75Hz"},
	{"EEG Theta", "3.5-6.75Hz"},
	{"EEG LowAlpha", "7.5-9.25Hz"},
	{"EEG HighAlpha", "10-11.75Hz"},
	{"EEG LowBeta", "13-16.75Hz"},
	{"EEG HighBeta", "18-29.75Hz"},
	{"EEG LowGamma", "31-39.75Hz"},
	{"EEG MidGamma", "41-49.75Hz"},
}

// BuildSignals produces the fixed ordered list of EDF signal descriptors
// described in the signal builder component: raw EEG, the two eSense
// metrics, signal quality, and the eight spectral bands. dataRecordDuration
// is in seconds; rawRate is the declared raw channel rate in Hz.
func BuildSignals(r Ranges, dataRecordDuration, rawRate float64) []Signal {
	signals := make([]Signal, numSignals)

	signals[SignalRaw] = Signal{
		Label: "EEG Fpz", Transducer: "ThinkGear EEG electrode", PhysicalUnit: "uV",
		PhysMin: math.Floor(r.Raw.Min * 1.1), PhysMax: math.Ceil(r.Raw.Max * 1.1),
		DigMin: -32768, DigMax: 32767,
		Prefilter:        "HP:0.5Hz LP:60Hz Notch:50Hz",
		SamplesPerRecord: samplesPerRecord(rawRate, dataRecordDuration),
	}
	signals[SignalAttention] = Signal{
		Label: "Attention", Transducer: "ThinkGear eSense", PhysicalUnit: "%",
		PhysMin: 0, PhysMax: 100, DigMin: 0, DigMax: 100,
		Prefilter:        "None",
		SamplesPerRecord: samplesPerRecord(1, dataRecordDuration),
	}
	signals[SignalMeditation] = Signal{
		Label: "Meditation", Transducer: "ThinkGear eSense", PhysicalUnit: "%",
		PhysMin: 0, PhysMax: 100, DigMin: 0, DigMax: 100,
		Prefilter:        "None",
		SamplesPerRecord: samplesPerRecord(1, dataRecordDuration),
	}
	signals[SignalQuality] = Signal{
		Label: "Signal Quality", Transducer: "ThinkGear contact sensor", PhysicalUnit: "level",
		PhysMin: 0, PhysMax: 255, DigMin: 0, DigMax: 255,
		Prefilter:        "None",
		SamplesPerRecord: samplesPerRecord(1, dataRecordDuration),
	}
	for i, bi := range bandInfos {
		b := r.Bands[i]
		signals[SignalDelta+i] = Signal{
			Label: bi.label, Transducer: "ThinkGear ASIC band power", PhysicalUnit: "uV²/Hz",
			PhysMin: math.Floor(b.Min * 0.9), PhysMax: math.Ceil(b.Max * 1.1),
			DigMin: 0, DigMax: 32767,
			Prefilter:        "BP:" + bi.freq,
			SamplesPerRecord: samplesPerRecord(1, dataRecordDuration),
		}
	}

	for i := range signals {
		if signals[i].PhysMax <= signals[i].PhysMin {
			signals[i].PhysMax = signals[i].PhysMin + 1
		}
	}

	return signals
}

func samplesPerRecord(rateHz, durationSeconds float64) int {
	n := int(rateHz * durationSeconds)
	if n < 1 {
		n = 1
	}
	return n
}
