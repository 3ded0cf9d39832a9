// hs-monitor polls channel temperatures and the reference/PLL state of
// an HS900 and serves the readings over HTTP (history, SSE live feed,
// runtime-adjustable poll interval).
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qulab/GoSigGen/hs900"
	"github.com/qulab/GoSigGen/internal/logging"
	"github.com/qulab/GoSigGen/internal/monitor"
	"github.com/qulab/GoSigGen/internal/telemetry"
)

func main() {
	addr := flag.String("addr", "", "Instrument network address")
	httpAddr := flag.String("http", ":8787", "HTTP listen address")
	interval := flag.Duration("interval", time.Second, "Initial poll interval")
	history := flag.Int("history", 500, "History sample limit")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	logFormat := flag.String("log-format", "text", "Log format: text|json")
	flag.Parse()

	if *addr == "" {
		log.Fatal("need -addr")
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	format, err := logging.ParseFormat(*logFormat)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(level, format, os.Stdout)
	logging.SetDefault(logger)

	dev, err := hs900.Dial(*addr, hs900.Options{})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer dev.Close()

	hub := telemetry.NewHub(*history)
	if ms := int(interval.Milliseconds()); ms > 0 {
		// Seed the runtime-adjustable interval through the same path the
		// HTTP config endpoint uses.
		seed := hub.ConfigSnapshot()
		seed.PollIntervalMs = ms
		if err := hub.SeedConfig(seed); err != nil {
			log.Fatal(err)
		}
	}

	reporter := telemetry.MultiReporter{hub, telemetry.NewStdoutReporter(logger)}
	mon := monitor.New(monitor.Wrap(dev), hub, reporter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go mon.Run(ctx)

	logger.Info("monitor started",
		logging.Field{Key: "instrument", Value: *addr},
		logging.Field{Key: "http", Value: *httpAddr},
		logging.Field{Key: "model", Value: dev.Model()})

	telemetry.NewWebServer(*httpAddr, hub).Start(ctx)
}
