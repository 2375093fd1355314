// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ads1115

import "errors"

var errNack = errors.New("nack")

// fakeDev emulates the register-pointer protocol of an ADS1115.
type fakeDev struct {
	ptr    byte
	config [2]byte
	conv   [2]byte

	busy  int  // status reads reporting busy after each start
	never bool // never report ready
	polls int  // status reads since the last start

	short    int // write of this length reports one byte less
	shortRd  bool
	failFrom int // conversions from this one (1-based) fail, 0 disables
	starts   int

	writes [][]byte
	closed int
}

func (f *fakeDev) Write(p []byte) (int, error) {
	f.writes = append(f.writes, append([]byte(nil), p...))
	if len(p) == 3 && p[0] == RegConfig {
		f.starts++
		if f.failFrom > 0 && f.starts >= f.failFrom {
			return 0, errNack
		}
	}
	if f.short != 0 && len(p) == f.short {
		return len(p) - 1, nil
	}
	f.ptr = p[0]
	if len(p) == 3 && f.ptr == RegConfig {
		f.config = [2]byte{p[1], p[2]}
		f.polls = 0
	}
	return len(p), nil
}

func (f *fakeDev) Read(p []byte) (int, error) {
	switch f.ptr {
	case RegConfig:
		f.polls++
		hi := f.config[0] &^ 0x80
		if !f.never && f.polls > f.busy {
			hi |= 0x80
		}
		copy(p, []byte{hi, f.config[1]})
	default:
		copy(p, f.conv[:])
		if f.shortRd {
			return 1, nil
		}
	}
	return len(p), nil
}

func (f *fakeDev) Close() error {
	f.closed++
	return nil
}
