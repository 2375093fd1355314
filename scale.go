// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ads1115

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

const fullScaleCounts = 32768.0

// Resolution returns the voltage of one conversion count for gain g.
func Resolution(g Gain) float64 {
	return g.FullScale() / fullScaleCounts
}

// ToVoltage scales a signed conversion result to volts.
// Out-of-range codes are not clamped.
func ToVoltage(raw int, res float64) float64 {
	return float64(raw) * res
}

// Potential converts v, in volts, to a physic quantity rounded to the
// nearest nanovolt.
func Potential(v float64) physic.ElectricPotential {
	return physic.ElectricPotential(math.Round(v * float64(physic.Volt)))
}
