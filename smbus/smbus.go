// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package smbus provides raw byte-level access to i2c devices.
//
// A Conn is bound to a single target address on a single bus: every
// Write and Read is a plain i2c transaction against that target, which is
// what register-pointer devices such as the ADS1115 expect.
package smbus

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

const (
	// MaxBus is the highest bus number accepted by Open.
	MaxBus = 255
)

var (
	errClosed = errors.New("smbus: connection closed")
)

// Path returns the devfs node of the i2c bus number.
func Path(bus int) string {
	return fmt.Sprintf("/dev/i2c-%d", bus)
}

// Conn is connection to a i2c device.
type Conn struct {
	f    *os.File
	bus  int
	addr uint8
}

// OpenFile opens a connection to the i2c bus number.
// Users should call SetAddr afterwards to have a properly configured connection.
func OpenFile(bus int) (*Conn, error) {
	f, err := os.OpenFile(Path(bus), os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}
	return &Conn{f: f, bus: bus}, nil
}

// Open opens a connection to the i2c bus number at address addr.
func Open(bus int, addr uint8) (*Conn, error) {
	c, err := OpenFile(bus)
	if err != nil {
		return nil, err
	}
	if err := c.SetAddr(addr); err != nil {
		return nil, multierr.Append(
			fmt.Errorf("smbus: could not bind address 0x%02x on %s: %w", addr, Path(bus), err),
			c.Close(),
		)
	}
	return c, nil
}

// Bus returns the bus number the connection was opened on.
func (c *Conn) Bus() int { return c.bus }

// Addr returns the currently bound target address.
func (c *Conn) Addr() uint8 { return c.addr }

// Write sends buf to the remote i2c device.
// The interpretation of the message is implementation dependant.
func (c *Conn) Write(buf []byte) (int, error) {
	if c.f == nil {
		return 0, errClosed
	}
	return c.f.Write(buf)
}

// Read reads data from the remote i2c device into p.
func (c *Conn) Read(p []byte) (int, error) {
	if c.f == nil {
		return 0, errClosed
	}
	return c.f.Read(p)
}

// Close closes the connection to the remote i2c device.
// Closing an already closed connection is a no-op.
func (c *Conn) Close() error {
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	return err
}

// SetAddr binds the connection to the target address addr.
func (c *Conn) SetAddr(addr uint8) error {
	if c.f == nil {
		return errClosed
	}
	if err := unix.IoctlSetInt(int(c.f.Fd()), unix.I2C_SLAVE, int(addr)); err != nil {
		return err
	}
	c.addr = addr
	return nil
}
