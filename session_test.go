// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ads1115

import (
	"errors"
	"testing"

	"github.com/go-daq/ads1115/smbus"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalizeBus(t *testing.T) {
	for _, tc := range []struct {
		bus     int
		want    int
		clamped bool
	}{
		{-10, 0, true},
		{-1, 0, true},
		{0, 0, false},
		{1, 1, false},
		{255, 255, false},
		{256, 255, true},
		{1 << 20, 255, true},
	} {
		got, clamped := NormalizeBus(tc.bus)
		if got != tc.want || clamped != tc.clamped {
			t.Errorf("normalize(%d): got=(%d, %v), want=(%d, %v)", tc.bus, got, clamped, tc.want, tc.clamped)
		}
	}
}

func TestOpenMissingDevice(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s, err := Open(smbus.MaxBus+10, 0x10, WithLogger(zap.New(core)))
	if err == nil {
		s.Close()
		t.Skipf("%s exists on this host", smbus.Path(smbus.MaxBus))
	}
	if s != nil {
		t.Fatalf("expected a nil session on failure")
	}
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected a transport error, got %v", err)
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected a *TransportError, got %T", err)
	}
	if got, want := terr.Op, "open "+smbus.Path(smbus.MaxBus); got != want {
		t.Fatalf("invalid op: got=%q, want=%q", got, want)
	}

	for _, msg := range []string{
		"bus number out of range, clamped",
		"device address out of range, clamped",
		"could not open device",
	} {
		if n := logs.FilterMessage(msg).Len(); n != 1 {
			t.Errorf("message %q logged %d times", msg, n)
		}
	}
}

func TestNewClampsAddress(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(&fakeDev{}, 0x60, WithLogger(zap.New(core)))

	if !s.Clamped() {
		t.Fatalf("expected the address to be clamped")
	}
	if got, want := s.Addr(), AddrSCL; got != want {
		t.Fatalf("invalid address: got=0x%02x, want=0x%02x", uint8(got), uint8(want))
	}
	if got := s.Bus(); got != -1 {
		t.Fatalf("invalid bus: got=%d, want=-1", got)
	}
	entries := logs.FilterMessage("device address out of range, clamped").All()
	if len(entries) != 1 {
		t.Fatalf("expected one clamp warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["addr"]; got != uint8(AddrSCL) {
		t.Fatalf("invalid logged address: %v", got)
	}

	s = New(&fakeDev{}, AddrVDD)
	if s.Clamped() {
		t.Fatalf("legal address reported as clamped")
	}
}

func TestDefaults(t *testing.T) {
	s := New(&fakeDev{}, AddrGND)
	want := Settings{
		Mux:        MuxAIN0,
		Gain:       Gain4V096,
		Rate:       Rate32,
		Comparator: Comparator{Queue: QueueDisabled},
		Mode:       ModeSingleShot,
	}
	if diff := cmp.Diff(want, s.Settings()); diff != "" {
		t.Fatalf("invalid default settings (-want +got):\n%s", diff)
	}
	if got, want := s.Resolution(), 0.000125; got != want {
		t.Fatalf("invalid default resolution: got=%v, want=%v", got, want)
	}
}

func TestSetters(t *testing.T) {
	dev := &fakeDev{}
	s := New(dev, AddrGND)

	s.SetGain(Gain0V256)
	s.SetDataRate(Rate860)
	s.SetMux(MuxDiff23)
	s.SetComparatorMode(CompWindow)
	s.SetComparatorPolarity(ActiveHigh)
	s.SetComparatorLatch(Latching)
	s.SetComparatorQueue(Queue2)

	want := Settings{
		Mux:  MuxDiff23,
		Gain: Gain0V256,
		Rate: Rate860,
		Comparator: Comparator{
			Mode:     CompWindow,
			Polarity: ActiveHigh,
			Latch:    Latching,
			Queue:    Queue2,
		},
		Mode: ModeSingleShot,
	}
	if diff := cmp.Diff(want, s.Settings()); diff != "" {
		t.Fatalf("invalid settings (-want +got):\n%s", diff)
	}
	if got, want := s.Resolution(), 0.256/32768.0; got != want {
		t.Fatalf("stale resolution: got=%v, want=%v", got, want)
	}

	if _, err := s.Read(); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if diff := cmp.Diff([]byte{RegConfig, 0xbb, 0xfd}, dev.writes[0]); diff != "" {
		t.Fatalf("invalid config write (-want +got):\n%s", diff)
	}
}

func TestSetChannel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := New(&fakeDev{}, AddrGND, WithLogger(zap.New(core)))

	for ch, want := range []Mux{MuxAIN0, MuxAIN1, MuxAIN2, MuxAIN3} {
		s.SetChannel(ch)
		if got := s.Settings().Mux; got != want {
			t.Fatalf("channel %d: got=%v, want=%v", ch, got, want)
		}
	}
	for _, ch := range []int{-1, 4, 7} {
		s.SetMux(MuxAIN3)
		s.SetChannel(ch)
		if got := s.Settings().Mux; got != MuxAIN0 {
			t.Fatalf("channel %d: got=%v, want=%v", ch, got, MuxAIN0)
		}
	}
	if n := logs.FilterMessage("invalid channel, using AIN0").Len(); n != 3 {
		t.Fatalf("expected 3 warnings, got %d", n)
	}
}

func TestSetModeIgnored(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dev := &fakeDev{}
	s := New(dev, AddrGND, WithLogger(zap.New(core)))

	s.SetMode(ModeContinuous)
	if got := s.Settings().Mode; got != ModeContinuous {
		t.Fatalf("mode not recorded: %v", got)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected a warning for continuous mode, got %d entries", logs.Len())
	}

	if _, err := s.Read(); err != nil {
		t.Fatalf("read error: %v", err)
	}
	if dev.writes[0][1]&0x01 == 0 {
		t.Fatalf("continuous mode reached the device: 0x%02x", dev.writes[0][1])
	}
}

func TestWithSettings(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Gain = Gain6V144
	s := New(&fakeDev{}, AddrGND, WithSettings(cfg), WithMaxPolls(0))

	if got, want := s.Resolution(), 6.144/32768.0; got != want {
		t.Fatalf("invalid resolution: got=%v, want=%v", got, want)
	}
	if got := s.maxPolls; got != DefaultMaxPolls {
		t.Fatalf("invalid poll budget: got=%d, want=%d", got, DefaultMaxPolls)
	}
}

func TestCloseIdempotent(t *testing.T) {
	dev := &fakeDev{}
	s := New(dev, AddrGND)
	for i := 0; i < 3; i++ {
		if err := s.Close(); err != nil {
			t.Fatalf("close #%d: %v", i, err)
		}
	}
	if dev.closed != 1 {
		t.Fatalf("connection closed %d times", dev.closed)
	}
}
