// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ads1115 provides access to the TI ADS1115 16-bit Analog-to-Digital
// converter, in single-shot mode.
//
// See:
//  http://www.ti.com/lit/ds/symlink/ads1115.pdf
package ads1115

import (
	"fmt"
	"strconv"
	"strings"
)

// Addr is the 7-bit i2c address of an ADS1115, selected by the wiring of
// its ADDR pin.
type Addr uint8

const (
	AddrGND Addr = 0x48 // ADDR tied to GND
	AddrVDD Addr = 0x49 // ADDR tied to VDD
	AddrSDA Addr = 0x4A // ADDR tied to SDA
	AddrSCL Addr = 0x4B // ADDR tied to SCL
)

// NormalizeAddr clamps addr to the legal address range.
// It reports whether addr had to be changed.
func NormalizeAddr(addr Addr) (Addr, bool) {
	switch {
	case addr < AddrGND:
		return AddrGND, true
	case addr > AddrSCL:
		return AddrSCL, true
	}
	return addr, false
}

// Pointer register values.
const (
	RegConversion byte = 0x00
	RegConfig     byte = 0x01
	RegLoThresh   byte = 0x02
	RegHiThresh   byte = 0x03
)

// config register, high byte
const (
	bitOS   = 0x80 // operational status / single-shot start
	bitMode = 0x01 // 1: single-shot or power-down

	shiftMux  = 4
	shiftGain = 1
)

// config register, low byte
const (
	shiftRate     = 5
	shiftCompMode = 4
	shiftCompPol  = 3
	shiftCompLat  = 2
)

// Mux selects the input pair measured by the converter.
type Mux uint8

const (
	MuxDiff01 Mux = iota // AIN0 - AIN1
	MuxDiff03            // AIN0 - AIN3
	MuxDiff13            // AIN1 - AIN3
	MuxDiff23            // AIN2 - AIN3
	MuxAIN0              // AIN0 - GND
	MuxAIN1              // AIN1 - GND
	MuxAIN2              // AIN2 - GND
	MuxAIN3              // AIN3 - GND
)

func (m Mux) String() string {
	switch m {
	case MuxDiff01:
		return "AIN0-AIN1"
	case MuxDiff03:
		return "AIN0-AIN3"
	case MuxDiff13:
		return "AIN1-AIN3"
	case MuxDiff23:
		return "AIN2-AIN3"
	case MuxAIN0, MuxAIN1, MuxAIN2, MuxAIN3:
		return fmt.Sprintf("AIN%d", uint8(m-MuxAIN0))
	}
	return fmt.Sprintf("Mux(%d)", uint8(m))
}

// Gain is the full-scale range of the programmable gain amplifier.
type Gain uint8

const (
	Gain6V144 Gain = iota // ±6.144V
	Gain4V096             // ±4.096V
	Gain2V048             // ±2.048V
	Gain1V024             // ±1.024V
	Gain0V512             // ±0.512V
	Gain0V256             // ±0.256V
)

// FullScale returns the full-scale span of the range, in volts.
// Only the 3 bits encoded in the config register are significant.
func (g Gain) FullScale() float64 {
	switch g & 0x7 {
	case Gain6V144:
		return 6.144
	case Gain4V096:
		return 4.096
	case Gain2V048:
		return 2.048
	case Gain1V024:
		return 1.024
	case Gain0V512:
		return 0.512
	}
	// codes 0b101 to 0b111 all select ±0.256V.
	return 0.256
}

func (g Gain) String() string {
	return fmt.Sprintf("±%.3fV", g.FullScale())
}

// ParseGain returns the gain matching s, either as a full-scale voltage
// ("4.096") or as a PGA factor ("2/3", "1", "2", "4", "8", "16").
func ParseGain(s string) (Gain, error) {
	switch strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(s), "V"), "±") {
	case "6.144", "2/3":
		return Gain6V144, nil
	case "4.096", "1":
		return Gain4V096, nil
	case "2.048", "2":
		return Gain2V048, nil
	case "1.024", "4":
		return Gain1V024, nil
	case "0.512", "8":
		return Gain0V512, nil
	case "0.256", "16":
		return Gain0V256, nil
	}
	return 0, fmt.Errorf("ads1115: invalid gain %q", s)
}

// DataRate is the number of samples per second of the converter.
type DataRate uint8

const (
	Rate8 DataRate = iota
	Rate16
	Rate32
	Rate64
	Rate128
	Rate250
	Rate475
	Rate860
)

var sps = [...]int{8, 16, 32, 64, 128, 250, 475, 860}

// SPS returns the samples per second of the rate.
func (r DataRate) SPS() int {
	return sps[r&0x7]
}

func (r DataRate) String() string {
	return strconv.Itoa(r.SPS()) + " SPS"
}

// ParseDataRate returns the rate with the given number of samples per second.
func ParseDataRate(s string) (DataRate, error) {
	v, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), " SPS"))
	if err != nil {
		return 0, fmt.Errorf("ads1115: invalid data rate %q: %w", s, err)
	}
	for i, n := range sps {
		if n == v {
			return DataRate(i), nil
		}
	}
	return 0, fmt.Errorf("ads1115: unsupported data rate %d SPS", v)
}

// Mode is the conversion mode. Only single-shot conversions are performed;
// the mode is recorded but never encoded.
type Mode uint8

const (
	ModeContinuous Mode = iota
	ModeSingleShot
)

// CompMode selects the comparator behaviour.
type CompMode uint8

const (
	CompTraditional CompMode = iota
	CompWindow
)

// CompPolarity is the active level of the ALERT/RDY pin.
type CompPolarity uint8

const (
	ActiveLow CompPolarity = iota
	ActiveHigh
)

// CompLatch tells whether the ALERT/RDY pin latches once asserted.
type CompLatch uint8

const (
	NonLatching CompLatch = iota
	Latching
)

// CompQueue is the number of successive conversions exceeding a threshold
// needed to assert ALERT/RDY.
type CompQueue uint8

const (
	Queue1 CompQueue = iota
	Queue2
	Queue4
	QueueDisabled // comparator off, ALERT/RDY in high impedance
)

// Comparator holds the comparator fields of the config register.
type Comparator struct {
	Mode     CompMode
	Polarity CompPolarity
	Latch    CompLatch
	Queue    CompQueue
}

// EncodeConfig returns the config register image, high byte first.
// The mode bit is always set: only single-shot conversions are supported.
func EncodeConfig(start bool, mux Mux, gain Gain, rate DataRate, cmp Comparator) [2]byte {
	var hi, lo byte
	if start {
		hi |= bitOS
	}
	hi |= byte(mux&0x7) << shiftMux
	hi |= byte(gain&0x7) << shiftGain
	hi |= bitMode

	lo |= byte(rate&0x7) << shiftRate
	lo |= byte(cmp.Mode&0x1) << shiftCompMode
	lo |= byte(cmp.Polarity&0x1) << shiftCompPol
	lo |= byte(cmp.Latch&0x1) << shiftCompLat
	lo |= byte(cmp.Queue & 0x3)
	return [2]byte{hi, lo}
}

// DecodeReading returns the signed conversion result held in hi and lo.
func DecodeReading(hi, lo byte) int {
	v := int(hi)<<8 | int(lo)
	if v > 0x7FFF {
		v -= 0x10000
	}
	return v
}

// IsConversionReady reports whether the high config byte hi signals an idle
// device, i.e. a completed conversion.
func IsConversionReady(hi byte) bool {
	return hi&bitOS != 0
}
