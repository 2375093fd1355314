// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package smbus

import (
	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// TxConn adapts a TinyGo i2c bus to the byte-stream Write/Read model used by
// Conn. Each Write and Read becomes one Tx against the bound address.
type TxConn struct {
	bus  drivers.I2C
	addr uint16
}

// NewTxConn returns a connection to the device at addr on bus.
func NewTxConn(bus drivers.I2C, addr uint8) *TxConn {
	return &TxConn{bus: bus, addr: uint16(addr)}
}

// Write sends buf to the device.
func (c *TxConn) Write(buf []byte) (int, error) {
	if err := c.bus.Tx(c.addr, buf, nil); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Read fills p from the device.
func (c *TxConn) Read(p []byte) (int, error) {
	if err := c.bus.Tx(c.addr, nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close is a no-op: the bus is owned by the caller.
func (c *TxConn) Close() error { return nil }

// PeriphConn adapts a periph.io i2c bus to the byte-stream Write/Read model
// used by Conn.
type PeriphConn struct {
	dev *i2c.Dev
}

// NewPeriphConn returns a connection to the device at addr on bus.
func NewPeriphConn(bus i2c.Bus, addr uint8) *PeriphConn {
	return &PeriphConn{dev: &i2c.Dev{Bus: bus, Addr: uint16(addr)}}
}

// Write sends buf to the device.
func (c *PeriphConn) Write(buf []byte) (int, error) {
	if err := c.dev.Tx(buf, nil); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// Read fills p from the device.
func (c *PeriphConn) Read(p []byte) (int, error) {
	if err := c.dev.Tx(nil, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close is a no-op: the bus is owned by the caller.
func (c *PeriphConn) Close() error { return nil }
