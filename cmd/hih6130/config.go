// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"github.com/urfave/cli"

	"github.com/GermanBionicSystems/hih6130/hih6130"
	"github.com/GermanBionicSystems/hih6130/i2cdev"
	"github.com/GermanBionicSystems/hih6130/monitor"
)

const (
	backendDevfs  = "devfs"
	backendPeriph = "periph"
)

// config is the resolved configuration. Keys in the configuration file use
// the flag names.
type config struct {
	Device    string
	Addr      uint16
	Backend   string
	Interval  time.Duration
	Settle    time.Duration
	KeepGoing bool
	Count     int
	DB        string
	PNG       string
	Gauge     int
	Debug     bool
	JSONLog   bool
}

var (
	stringFlags   = []string{"device", "addr", "backend", "db", "png"}
	durationFlags = []string{"interval", "settle"}
	boolFlags     = []string{"keep-going", "debug", "json-log"}
	intFlags      = []string{"count", "gauge"}
)

func flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load configuration from `FILE` (toml, yaml or json)",
		},
		cli.StringFlag{
			Name:  "device",
			Value: i2cdev.DefaultPath,
			Usage: "I²C bus device, or periph bus name with --backend periph",
		},
		cli.StringFlag{
			Name:  "addr",
			Value: fmt.Sprintf("0x%02x", hih6130.DefaultAddress),
			Usage: "sensor address",
		},
		cli.StringFlag{
			Name:  "backend",
			Value: backendDevfs,
			Usage: "bus access: devfs or periph",
		},
		cli.DurationFlag{
			Name:  "interval",
			Value: monitor.DefaultInterval,
			Usage: "time between two reads",
		},
		cli.DurationFlag{
			Name:  "settle",
			Value: hih6130.DefaultSettleDelay,
			Usage: "wait between the measurement request and the read",
		},
		cli.BoolFlag{
			Name:  "keep-going",
			Usage: "log read errors and retry instead of exiting",
		},
		cli.IntFlag{
			Name:  "count",
			Usage: "stop after `N` reads, 0 runs forever",
		},
		cli.StringFlag{
			Name:  "db",
			Usage: "log samples to the SQLite `FILE`",
		},
		cli.StringFlag{
			Name:  "png",
			Usage: "keep a PNG snapshot of the latest sample at `FILE`",
		},
		cli.IntFlag{
			Name:  "gauge",
			Usage: "show a humidity gauge `N` characters wide",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logs",
		},
		cli.BoolFlag{
			Name:  "json-log",
			Usage: "log as JSON",
		},
	}
}

// applyFlags copies the flags explicitly set on the command line into v, so
// they take precedence over the configuration file.
func applyFlags(c *cli.Context, v *viper.Viper) {
	for _, name := range stringFlags {
		if c.IsSet(name) {
			v.Set(name, c.String(name))
		}
	}
	for _, name := range durationFlags {
		if c.IsSet(name) {
			v.Set(name, c.Duration(name))
		}
	}
	for _, name := range boolFlags {
		if c.IsSet(name) {
			v.Set(name, c.Bool(name))
		}
	}
	for _, name := range intFlags {
		if c.IsSet(name) {
			v.Set(name, c.Int(name))
		}
	}
}

// loadConfig reads the optional file then lets override adjust the values.
func loadConfig(file string, override func(v *viper.Viper)) (*config, error) {
	v := viper.New()
	v.SetDefault("device", i2cdev.DefaultPath)
	v.SetDefault("addr", strconv.Itoa(int(hih6130.DefaultAddress)))
	v.SetDefault("backend", backendDevfs)
	v.SetDefault("interval", monitor.DefaultInterval)
	v.SetDefault("settle", hih6130.DefaultSettleDelay)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if override != nil {
		override(v)
	}

	addr, err := strconv.ParseUint(v.GetString("addr"), 0, 16)
	if err != nil {
		return nil, fmt.Errorf("config: invalid addr %q: %w", v.GetString("addr"), err)
	}
	cfg := &config{
		Device:    v.GetString("device"),
		Addr:      uint16(addr),
		Backend:   v.GetString("backend"),
		Interval:  v.GetDuration("interval"),
		Settle:    v.GetDuration("settle"),
		KeepGoing: v.GetBool("keep-going"),
		Count:     v.GetInt("count"),
		DB:        v.GetString("db"),
		PNG:       v.GetString("png"),
		Gauge:     v.GetInt("gauge"),
		Debug:     v.GetBool("debug"),
		JSONLog:   v.GetBool("json-log"),
	}
	switch cfg.Backend {
	case backendDevfs, backendPeriph:
	default:
		return nil, fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("config: interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Count < 0 || cfg.Gauge < 0 {
		return nil, fmt.Errorf("config: count and gauge cannot be negative")
	}
	return cfg, nil
}
