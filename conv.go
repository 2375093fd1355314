// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ads1115

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"
)

// Read performs one single-shot conversion and returns the input voltage.
func (s *Session) Read() (float64, error) {
	return s.ReadContext(context.Background())
}

// ReadContext is like Read but gives up polling for the result once ctx
// is done.
func (s *Session) ReadContext(ctx context.Context) (float64, error) {
	raw, err := s.ReadRawContext(ctx)
	if err != nil {
		return 0, err
	}
	return ToVoltage(raw, s.res), nil
}

// Sense is like Read but returns the input voltage as a physic quantity.
func (s *Session) Sense() (physic.ElectricPotential, error) {
	v, err := s.Read()
	if err != nil {
		return 0, err
	}
	return Potential(v), nil
}

// ReadRaw performs one single-shot conversion and returns the signed
// conversion result, in counts.
func (s *Session) ReadRaw() (int, error) {
	return s.ReadRawContext(context.Background())
}

// ReadRawContext is like ReadRaw but gives up polling for the result once
// ctx is done.
func (s *Session) ReadRawContext(ctx context.Context) (int, error) {
	if s.conn == nil {
		return 0, ErrClosed
	}

	cfg := EncodeConfig(true, s.cfg.Mux, s.cfg.Gain, s.cfg.Rate, s.cfg.Comparator)

	// writing the config with OS set starts the conversion.
	err := s.write("write config", []byte{RegConfig, cfg[0], cfg[1]})
	if err != nil {
		return 0, err
	}

	polls, err := s.wait(ctx)
	if err != nil {
		return 0, err
	}

	err = s.write("select conversion", []byte{RegConversion})
	if err != nil {
		return 0, err
	}

	var buf [2]byte
	err = s.read("read conversion", buf[:])
	if err != nil {
		return 0, err
	}

	raw := DecodeReading(buf[0], buf[1])
	s.log.Debug("conversion",
		zap.String("config", fmt.Sprintf("0x%02x%02x", cfg[0], cfg[1])),
		zap.Int("polls", polls),
		zap.Int("raw", raw),
	)
	return raw, nil
}

// wait polls the config register until the device reports an idle state.
// It returns the number of status reads issued.
func (s *Session) wait(ctx context.Context) (int, error) {
	var buf [2]byte
	for i := 0; i < s.maxPolls; i++ {
		if err := ctx.Err(); err != nil {
			return i, &StallError{Polls: i, Err: err}
		}

		err := s.read("poll config", buf[:])
		if err != nil {
			return i + 1, err
		}
		if IsConversionReady(buf[0]) {
			return i + 1, nil
		}

		if s.interval > 0 {
			t := time.NewTimer(s.interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return i + 1, &StallError{Polls: i + 1, Err: ctx.Err()}
			case <-t.C:
			}
		}
	}
	s.log.Warn("conversion not ready", zap.Int("polls", s.maxPolls))
	return s.maxPolls, &StallError{Polls: s.maxPolls}
}

func (s *Session) write(op string, p []byte) error {
	n, err := s.conn.Write(p)
	if err != nil {
		return &TransportError{Op: op, Want: len(p), Got: n, Err: err}
	}
	if n != len(p) {
		return &TransportError{Op: op, Want: len(p), Got: n}
	}
	return nil
}

func (s *Session) read(op string, p []byte) error {
	n, err := s.conn.Read(p)
	if err != nil {
		return &TransportError{Op: op, Want: len(p), Got: n, Err: err}
	}
	if n != len(p) {
		return &TransportError{Op: op, Want: len(p), Got: n}
	}
	return nil
}

// Average performs n sequential conversions and returns their mean voltage.
//
// The first failed conversion aborts the average and its error is returned.
func (s *Session) Average(n int) (float64, error) {
	return s.AverageContext(context.Background(), n)
}

// AverageContext is like Average but stops once ctx is done.
func (s *Session) AverageContext(ctx context.Context, n int) (float64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	// the gain can not change during the loop: sum counts, scale once.
	sum := 0
	for i := 0; i < n; i++ {
		raw, err := s.ReadRawContext(ctx)
		if err != nil {
			return 0, fmt.Errorf("ads1115: sample %d/%d: %w", i+1, n, err)
		}
		sum += raw
	}

	avg := float64(sum) / float64(n) * s.res
	s.log.Debug("average", zap.Int("samples", n), zap.Float64("volts", avg))
	return avg, nil
}
