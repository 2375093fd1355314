// Copyright 2018 The go-daq Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ads1115-demo reads averaged voltages from an ADS1115.
//
// Settings are taken, by decreasing priority, from command line flags,
// ADS1115_ prefixed environment variables, an optional JSON config file
// (-c/--config-file, default ads1115.json) and built-in defaults.
//
// Example:
//
//	$> ads1115-demo --bus=1 --addr=0x4a --gain=4.096 --rate=16 --channel=0
//	round 1: 1.2345 V (8 conversions)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/go-daq/ads1115"
	"github.com/warthog618/config"
	"github.com/warthog618/config/blob"
	"github.com/warthog618/config/blob/decoder/json"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/env"
	"github.com/warthog618/config/pflag"
	"go.uber.org/zap"
)

func main() {
	os.Exit(demo(loadConfig()))
}

// demo runs the demo and returns the process exit code, once the logger
// has been flushed.
func demo(cfg *config.Config) int {
	log, err := newLogger(cfg.MustGet("verbose").Bool())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ads1115-demo: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg, log)
	if err != nil {
		log.Error("demo failed", zap.Error(err))
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	addr, err := strconv.ParseUint(cfg.MustGet("addr").String(), 0, 8)
	if err != nil {
		return fmt.Errorf("invalid address: %w", err)
	}
	gain, err := ads1115.ParseGain(cfg.MustGet("gain").String())
	if err != nil {
		return err
	}
	rate, err := ads1115.ParseDataRate(cfg.MustGet("rate").String())
	if err != nil {
		return err
	}

	dev, err := ads1115.Open(
		cfg.MustGet("bus").Int(),
		ads1115.Addr(addr),
		ads1115.WithLogger(log),
		ads1115.WithMaxPolls(cfg.MustGet("polls").Int()),
	)
	if err != nil {
		return err
	}
	defer dev.Close()

	dev.SetGain(gain)
	dev.SetDataRate(rate)
	dev.SetChannel(cfg.MustGet("channel").Int())

	var (
		rounds  = cfg.MustGet("rounds").Int()
		samples = cfg.MustGet("samples").Int()
	)
	for i := 0; i < rounds; i++ {
		v, err := dev.AverageContext(ctx, samples)
		if err != nil {
			return fmt.Errorf("round %d: %w", i+1, err)
		}
		fmt.Printf("round %d: %1.4f V (%d conversions)\n", i+1, v, samples)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return c.Build()
}

func loadConfig() *config.Config {
	defaultConfig := map[string]interface{}{
		"bus":       1,
		"addr":      "0x4a",
		"gain":      "4.096",
		"rate":      "16",
		"channel":   0,
		"samples":   8,
		"rounds":    10,
		"polls":     ads1115.DefaultMaxPolls,
		"verbose":   false,
	}
	def := dict.New(dict.WithMap(defaultConfig))
	cfg := config.New(
		pflag.New(pflag.WithFlags(
			[]pflag.Flag{{Short: 'c', Name: "config-file"}})),
		env.New(env.WithEnvPrefix("ADS1115_")),
		config.WithDefault(def))
	cfg.Append(
		blob.NewConfigFile(cfg, "config.file", "ads1115.json", json.NewDecoder()))
	cfg = cfg.GetConfig("", config.WithMust())
	return cfg
}
