// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hih6130 prints temperature and relative humidity read from a Honeywell
// HIH6130 sensor, once per interval.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/urfave/cli"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/hih6130/console"
	"github.com/GermanBionicSystems/hih6130/frame"
	"github.com/GermanBionicSystems/hih6130/hih6130"
	"github.com/GermanBionicSystems/hih6130/i2cdev"
	"github.com/GermanBionicSystems/hih6130/monitor"
	"github.com/GermanBionicSystems/hih6130/store"
)

func main() {
	app := cli.NewApp()
	app.Name = "hih6130"
	app.Usage = "read temperature and humidity from a Honeywell HIH6130"
	app.Version = "1.0.0"
	app.Flags = flags()
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hih6130: %s.\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"), func(v *viper.Viper) { applyFlags(c, v) })
	if err != nil {
		return err
	}
	setupLogging(cfg, os.Stderr)
	logger := log.WithField("component", "main")

	bus, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := hih6130.NewI2C(bus, &hih6130.Opts{Addr: cfg.Addr, SettleDelay: cfg.Settle})
	if err != nil {
		return err
	}

	sinks, closeSinks, err := buildSinks(cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stopSig := make(chan os.Signal, 1)
	signal.Notify(stopSig, os.Interrupt)
	defer signal.Stop(stopSig)
	go func() {
		select {
		case <-stopSig:
			logger.WithField("event", "signal").Info("interrupted, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.WithField("event", "start").
		WithField("sensor", dev.String()).
		WithField("interval", cfg.Interval.String()).
		Debug("polling sensor")

	m := monitor.New(dev, monitor.Config{
		Interval:   cfg.Interval,
		KeepGoing:  cfg.KeepGoing,
		MaxSamples: cfg.Count,
		Logger:     log.StandardLogger(),
	}, sinks...)
	return m.Run(ctx)
}

func setupLogging(cfg *config, w io.Writer) {
	log.SetOutput(w)
	if cfg.JSONLog {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{})
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// openBus returns the bus to talk to the sensor through. The devfs session
// is bound to the sensor address.
func openBus(cfg *config) (i2c.BusCloser, error) {
	if cfg.Backend == backendPeriph {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("periph: %w", err)
		}
		return i2creg.Open(cfg.Device)
	}
	s, err := i2cdev.Open(cfg.Device, cfg.Addr)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// buildSinks returns the sinks in output order. The gauge is drawn in front
// of the sample line.
func buildSinks(cfg *config) ([]monitor.Sink, func(), error) {
	var sinks []monitor.Sink
	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	out, tty := console.Stdout()
	if cfg.Gauge > 0 {
		sinks = append(sinks, &frame.DrawerSink{Drawer: console.NewStrip(out, cfg.Gauge, nil)})
	}
	sinks = append(sinks, console.NewPrinter(out, tty))

	if cfg.DB != "" {
		st, err := store.Open(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, st.Close)
		sinks = append(sinks, &store.Sink{Store: st})
	}
	if cfg.PNG != "" {
		sinks = append(sinks, &frame.PNGSink{Path: cfg.PNG})
	}
	return sinks, closeAll, nil
}
