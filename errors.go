// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ads1115

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("ads1115: transport failure")

	// ErrStall matches every *StallError.
	ErrStall = errors.New("ads1115: conversion never completed")

	// ErrInvalidCount is returned when averaging over less than one sample.
	ErrInvalidCount = errors.New("ads1115: invalid sample count")

	// ErrClosed is returned by conversions on a closed session.
	ErrClosed = errors.New("ads1115: session closed")
)

// TransportError reports a failed or short bus transaction.
type TransportError struct {
	Op   string // transaction that failed
	Want int    // requested byte count
	Got  int    // transferred byte count
	Err  error  // underlying error, nil for a short transfer
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ads1115: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ads1115: %s: short transfer (%d of %d bytes)", e.Op, e.Got, e.Want)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StallError reports a conversion whose ready bit was never observed, either
// because the poll budget ran out or because the context was done.
type StallError struct {
	Polls int   // number of status reads issued
	Err   error // context error, if any
}

func (e *StallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ads1115: conversion not ready after %d polls: %v", e.Polls, e.Err)
	}
	return fmt.Sprintf("ads1115: conversion not ready after %d polls", e.Polls)
}

func (e *StallError) Unwrap() error { return e.Err }

func (e *StallError) Is(target error) bool { return target == ErrStall }
