// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ads1115

import (
	"time"

	"github.com/go-daq/ads1115/smbus"
	"go.uber.org/zap"
)

const (
	// DefaultMaxPolls is the default number of status reads issued while
	// waiting for a conversion to complete.
	DefaultMaxPolls = 1000
)

// Conn is a byte-level connection to one device on an i2c bus.
// *smbus.Conn, *smbus.TxConn and *smbus.PeriphConn implement it.
type Conn interface {
	Write(buf []byte) (int, error)
	Read(buf []byte) (int, error)
	Close() error
}

// Settings is the full set of configuration values of a session.
type Settings struct {
	Mux        Mux
	Gain       Gain
	Rate       DataRate
	Comparator Comparator
	Mode       Mode
}

// DefaultSettings returns the settings of a freshly opened session:
// AIN0 against GND, ±4.096V, 32 SPS, comparator disabled.
func DefaultSettings() Settings {
	return Settings{
		Mux:  MuxAIN0,
		Gain: Gain4V096,
		Rate: Rate32,
		Comparator: Comparator{
			Mode:     CompTraditional,
			Polarity: ActiveLow,
			Latch:    NonLatching,
			Queue:    QueueDisabled,
		},
		Mode: ModeSingleShot,
	}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger of the session.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxPolls bounds the number of status reads per conversion.
// Values below 1 select DefaultMaxPolls.
func WithMaxPolls(n int) Option {
	return func(s *Session) {
		if n < 1 {
			n = DefaultMaxPolls
		}
		s.maxPolls = n
	}
}

// WithPollInterval sets a pause between two status reads.
// The default is to poll back to back.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		s.interval = d
	}
}

// WithSettings replaces the initial settings of the session.
func WithSettings(cfg Settings) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// Session is a handle to one ADS1115 device.
//
// A Session is not safe for concurrent use: a conversion is a sequence of
// bus transactions that must not be interleaved with another one.
type Session struct {
	conn Conn
	bus  int
	addr Addr

	cfg Settings
	res float64 // volts per count for cfg.Gain

	clamped  bool
	maxPolls int
	interval time.Duration

	log *zap.Logger
}

func newSession(opts []Option) *Session {
	s := &Session{
		bus:      -1,
		cfg:      DefaultSettings(),
		maxPolls: DefaultMaxPolls,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.res = Resolution(s.cfg.Gain)
	return s
}

// NormalizeBus clamps bus to the [0, smbus.MaxBus] range.
// It reports whether bus had to be changed.
func NormalizeBus(bus int) (int, bool) {
	switch {
	case bus < 0:
		return 0, true
	case bus > smbus.MaxBus:
		return smbus.MaxBus, true
	}
	return bus, false
}

// Open opens a session with the ADS1115 at address addr on the i2c bus
// number bus.
//
// Out-of-range bus numbers and addresses are clamped to the nearest legal
// value; this is logged and reported by Clamped.
func Open(bus int, addr Addr, opts ...Option) (*Session, error) {
	s := newSession(opts)

	nbus, cbus := NormalizeBus(bus)
	if cbus {
		s.log.Warn("bus number out of range, clamped",
			zap.Int("requested", bus), zap.Int("bus", nbus),
		)
	}
	naddr, caddr := NormalizeAddr(addr)
	if caddr {
		s.log.Warn("device address out of range, clamped",
			zap.Uint8("requested", uint8(addr)), zap.Uint8("addr", uint8(naddr)),
		)
	}

	conn, err := smbus.Open(nbus, uint8(naddr))
	if err != nil {
		s.log.Error("could not open device",
			zap.String("path", smbus.Path(nbus)), zap.Uint8("addr", uint8(naddr)), zap.Error(err),
		)
		return nil, &TransportError{Op: "open " + smbus.Path(nbus), Err: err}
	}

	s.conn = conn
	s.bus = nbus
	s.addr = naddr
	s.clamped = cbus || caddr
	s.log.Info("opened device",
		zap.String("path", smbus.Path(nbus)), zap.Uint8("addr", uint8(naddr)),
	)
	return s, nil
}

// New returns a session using an already bound connection to the device at
// address addr. Bus returns -1 for such sessions.
func New(conn Conn, addr Addr, opts ...Option) *Session {
	s := newSession(opts)
	s.conn = conn
	s.addr, s.clamped = NormalizeAddr(addr)
	if s.clamped {
		s.log.Warn("device address out of range, clamped",
			zap.Uint8("requested", uint8(addr)), zap.Uint8("addr", uint8(s.addr)),
		)
	}
	return s
}

// Close releases the connection to the device.
// Closing an already closed session is a no-op.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	s.log.Info("closed device", zap.Uint8("addr", uint8(s.addr)), zap.Error(err))
	return err
}

// Bus returns the bus number of the session, or -1 if unknown.
func (s *Session) Bus() int { return s.bus }

// Addr returns the device address of the session.
func (s *Session) Addr() Addr { return s.addr }

// Clamped reports whether the bus number or address given at creation was
// out of range and had to be clamped.
func (s *Session) Clamped() bool { return s.clamped }

// Settings returns the active settings.
func (s *Session) Settings() Settings { return s.cfg }

// Resolution returns the voltage of one conversion count for the active gain.
func (s *Session) Resolution() float64 { return s.res }

// SetGain selects the full-scale range used by the next conversions.
func (s *Session) SetGain(g Gain) {
	s.cfg.Gain = g
	s.res = Resolution(g)
	s.log.Debug("gain", zap.Stringer("gain", g), zap.Float64("resolution", s.res))
}

// SetDataRate selects the sample rate.
func (s *Session) SetDataRate(r DataRate) {
	s.cfg.Rate = r
	s.log.Debug("data rate", zap.Stringer("rate", r))
}

// SetMux selects the measured input pair.
func (s *Session) SetMux(m Mux) {
	s.cfg.Mux = m
	s.log.Debug("mux", zap.Stringer("mux", m))
}

// SetChannel selects the single-ended input AIN<ch> against GND.
// Channels outside [0, 3] select AIN0.
func (s *Session) SetChannel(ch int) {
	if ch < 0 || ch > 3 {
		s.log.Warn("invalid channel, using AIN0", zap.Int("channel", ch))
		ch = 0
	}
	s.SetMux(MuxAIN0 + Mux(ch))
}

// SetMode records the requested conversion mode.
// Conversions are always single-shot: continuous mode has no effect.
func (s *Session) SetMode(m Mode) {
	s.cfg.Mode = m
	if m != ModeSingleShot {
		s.log.Warn("continuous conversion mode is not supported, using single-shot")
	}
}

// SetComparatorMode selects a traditional or window comparator.
func (s *Session) SetComparatorMode(m CompMode) { s.cfg.Comparator.Mode = m }

// SetComparatorPolarity sets the active level of the ALERT/RDY pin.
func (s *Session) SetComparatorPolarity(p CompPolarity) { s.cfg.Comparator.Polarity = p }

// SetComparatorLatch sets whether ALERT/RDY latches once asserted.
func (s *Session) SetComparatorLatch(l CompLatch) { s.cfg.Comparator.Latch = l }

// SetComparatorQueue sets the comparator queue, or disables the comparator.
func (s *Session) SetComparatorQueue(q CompQueue) { s.cfg.Comparator.Queue = q }
