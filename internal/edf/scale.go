package edf

import "math"

// Scale converts each signal's Physical samples into digital Data samples
// using the linear phys-to-digital mapping declared on the signal itself,
// clamped to [DigMin, DigMax]. A degenerate physical range (PhysMax ==
// PhysMin) maps every sample to DigMin rather than dividing by zero.
func Scale(signals []Signal) {
	for i := range signals {
		scaleOne(&signals[i])
	}
}

func scaleOne(s *Signal) {
	s.Data = make([]int16, len(s.Physical))
	if s.PhysMax == s.PhysMin {
		for i := range s.Data {
			s.Data[i] = int16(s.DigMin)
		}
		return
	}

	gain := float64(s.DigMax-s.DigMin) / (s.PhysMax - s.PhysMin)
	for i, v := range s.Physical {
		d := math.Round((v-s.PhysMin)*gain) + float64(s.DigMin)
		if d < float64(s.DigMin) {
			d = float64(s.DigMin)
		}
		if d > float64(s.DigMax) {
			d = float64(s.DigMax)
		}
		s.Data[i] = int16(d)
	}
}
