package monitor

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/qulab/GoSigGen/hs900"
	"github.com/qulab/GoSigGen/internal/logging"
	"github.com/qulab/GoSigGen/internal/telemetry"
)

type fakeChannel struct {
	id   string
	temp float64
	err  error
}

func (c fakeChannel) ID() string { return c.id }

func (c fakeChannel) Temperature() (float64, error) { return c.temp, c.err }

type fakeInstrument struct {
	channels []Channel
	ref      hs900.Reference
	refErr   error
	pll      string
	pllErr   error
}

func (f fakeInstrument) Channels() []Channel { return f.channels }

func (f fakeInstrument) ReferenceStatus() (hs900.Reference, error) { return f.ref, f.refErr }

func (f fakeInstrument) PLLStatus() (string, error) { return f.pll, f.pllErr }

type recordingReporter struct {
	samples []telemetry.Sample
}

func (r *recordingReporter) Report(s telemetry.Sample) { r.samples = append(r.samples, s) }

func quietLogger() logging.Logger {
	return logging.New(logging.Error, logging.Text, io.Discard)
}

func TestPollOnceReportsEveryChannel(t *testing.T) {
	inst := fakeInstrument{
		channels: []Channel{
			fakeChannel{id: "CH1", temp: 36.5},
			fakeChannel{id: "CH2", temp: 38.0},
		},
		ref: hs900.Reference{Source: hs900.RefInternal, FrequencyHz: 100e6},
		pll: "PLL Locked",
	}
	rep := &recordingReporter{}
	mon := New(inst, telemetry.NewHub(10), rep, quietLogger())
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mon.now = func() time.Time { return fixed }

	mon.PollOnce()

	if len(rep.samples) != 2 {
		t.Fatalf("got %d samples, want 2", len(rep.samples))
	}
	first := rep.samples[0]
	if first.Channel != "CH1" || first.TempC != 36.5 {
		t.Errorf("first sample = %+v", first)
	}
	if first.RefSource != "Internal" || first.RefMHz != 100 {
		t.Errorf("reference not propagated: %+v", first)
	}
	if first.PLL != "PLL Locked" {
		t.Errorf("PLL = %q", first.PLL)
	}
	if !first.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want %v", first.Timestamp, fixed)
	}
}

func TestPollOnceSkipsFailingChannel(t *testing.T) {
	inst := fakeInstrument{
		channels: []Channel{
			fakeChannel{id: "CH1", err: errors.New("read failed")},
			fakeChannel{id: "CH2", temp: 40.1},
		},
	}
	rep := &recordingReporter{}
	mon := New(inst, telemetry.NewHub(10), rep, quietLogger())

	mon.PollOnce()

	if len(rep.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(rep.samples))
	}
	if rep.samples[0].Channel != "CH2" {
		t.Errorf("surviving sample from %q, want CH2", rep.samples[0].Channel)
	}
}

func TestPollOnceToleratesReferenceAndPLLFailure(t *testing.T) {
	inst := fakeInstrument{
		channels: []Channel{fakeChannel{id: "CH1", temp: 35.0}},
		refErr:   errors.New("ref query failed"),
		pllErr:   errors.New("pll query failed"),
	}
	rep := &recordingReporter{}
	mon := New(inst, telemetry.NewHub(10), rep, quietLogger())

	mon.PollOnce()

	if len(rep.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(rep.samples))
	}
	got := rep.samples[0]
	if got.RefSource != "" || got.RefMHz != 0 || got.PLL != "" {
		t.Errorf("failed status should leave zero values, got %+v", got)
	}
	if got.TempC != 35.0 {
		t.Errorf("TempC = %v, want 35.0", got.TempC)
	}
}
