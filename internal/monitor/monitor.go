// Package monitor polls an HS900's health readings (per-channel
// temperature, active reference, PLL report) and hands each reading to
// a telemetry reporter. Polling is the only writer on the instrument
// connection, which keeps the driver's serialize-externally contract.
package monitor

import (
	"context"
	"time"

	"github.com/qulab/GoSigGen/hs900"
	"github.com/qulab/GoSigGen/internal/logging"
	"github.com/qulab/GoSigGen/internal/telemetry"
)

// Channel is the per-channel surface the monitor needs.
type Channel interface {
	ID() string
	Temperature() (float64, error)
}

// Instrument is the device surface the monitor needs.
type Instrument interface {
	Channels() []Channel
	ReferenceStatus() (hs900.Reference, error)
	PLLStatus() (string, error)
}

// Wrap adapts a live device to the Instrument interface.
func Wrap(d *hs900.Device) Instrument {
	return deviceAdapter{d}
}

type deviceAdapter struct {
	d *hs900.Device
}

func (a deviceAdapter) Channels() []Channel {
	chans := a.d.Channels()
	out := make([]Channel, len(chans))
	for i, ch := range chans {
		out[i] = ch
	}
	return out
}

func (a deviceAdapter) ReferenceStatus() (hs900.Reference, error) {
	return a.d.ReferenceStatus()
}

func (a deviceAdapter) PLLStatus() (string, error) {
	return a.d.PLLStatus()
}

// Monitor drives the poll loop.
type Monitor struct {
	inst     Instrument
	hub      *telemetry.Hub
	reporter telemetry.Reporter
	logger   logging.Logger
	now      func() time.Time
}

// New builds a Monitor. The hub provides the poll interval (so it can be
// changed over the config endpoint while running); the reporter receives
// every sample.
func New(inst Instrument, hub *telemetry.Hub, reporter telemetry.Reporter, logger logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Monitor{
		inst:     inst,
		hub:      hub,
		reporter: reporter,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls until the context is canceled.
func (m *Monitor) Run(ctx context.Context) {
	for {
		interval := time.Duration(m.hub.ConfigSnapshot().PollIntervalMs) * time.Millisecond
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			m.PollOnce()
		}
	}
}

// PollOnce takes one full set of readings. Per-channel failures are
// logged and skipped so one flaky channel does not starve the others.
func (m *Monitor) PollOnce() {
	var refSource string
	var refMHz float64
	if ref, err := m.inst.ReferenceStatus(); err != nil {
		m.logger.Warn("reference status failed", logging.Field{Key: "error", Value: err})
	} else {
		refSource = string(ref.Source)
		refMHz = ref.FrequencyHz / 1e6
	}

	pll, err := m.inst.PLLStatus()
	if err != nil {
		m.logger.Warn("pll status failed", logging.Field{Key: "error", Value: err})
		pll = ""
	}

	for _, ch := range m.inst.Channels() {
		temp, err := ch.Temperature()
		if err != nil {
			m.logger.Warn("temperature read failed",
				logging.Field{Key: "channel", Value: ch.ID()},
				logging.Field{Key: "error", Value: err})
			continue
		}
		m.reporter.Report(telemetry.Sample{
			Timestamp: m.now(),
			Channel:   ch.ID(),
			TempC:     temp,
			RefSource: refSource,
			RefMHz:    refMHz,
			PLL:       pll,
		})
	}
}
