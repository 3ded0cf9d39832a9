package hs900

import (
	"strings"
	"testing"
)

func newTestChannel(t *testing.T, extra map[string]string) (*Channel, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{replies: merge(boundsFor("CH1"), extra)}
	ch, err := newChannel(ft, "CH1")
	if err != nil {
		t.Fatalf("newChannel returned error: %v", err)
	}
	return ch, ft
}

func TestNewChannelQueriesBounds(t *testing.T) {
	ch, ft := newTestChannel(t, nil)

	if got := ch.FrequencyBounds(); got.Min != 100e3 || got.Max != 6e9 {
		t.Fatalf("unexpected frequency bounds: %+v", got)
	}
	if got := ch.PowerBounds(); got.Min != -100 || got.Max != 20 {
		t.Fatalf("unexpected power bounds: %+v", got)
	}
	if got := ch.PhaseBounds(); got.Min != 0 || got.Max != 360 {
		t.Fatalf("unexpected phase bounds: %+v", got)
	}
	if len(ft.sent) != 6 {
		t.Fatalf("expected 6 bound queries, got %d: %v", len(ft.sent), ft.sent)
	}
}

func TestSetFrequencyOutOfRangeSendsNothing(t *testing.T) {
	ch, ft := newTestChannel(t, nil)
	before := len(ft.sent)

	if err := ch.SetFrequency(10e9); !IsRangeError(err) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if err := ch.SetFrequency(50); !IsRangeError(err) {
		t.Fatalf("expected RangeError below minimum, got %v", err)
	}
	if len(ft.sent) != before {
		t.Fatalf("out-of-range set sent commands: %v", ft.sent[before:])
	}
}

func TestSetFrequencyAcknowledged(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:FREQ:2.4GHz": "Frequency Set",
	})
	if err := ch.SetFrequency(2.4e9); err != nil {
		t.Fatalf("SetFrequency returned error: %v", err)
	}
}

func TestSetFrequencyBadAck(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:FREQ:2.4GHz": "ERROR 17",
	})
	err := ch.SetFrequency(2.4e9)
	if !IsProtocolError(err) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	// The message must carry both the command and the raw reply.
	msg := err.Error()
	if !strings.Contains(msg, ":CH1:FREQ:2.4GHz") || !strings.Contains(msg, "ERROR 17") {
		t.Fatalf("error message missing command or reply: %q", msg)
	}
}

func TestSetStateAcknowledged(t *testing.T) {
	ch, ft := newTestChannel(t, map[string]string{
		":CH1:PWR:RF:ON": "RF POWER ON",
	})
	if err := ch.SetState(On); err != nil {
		t.Fatalf("SetState returned error: %v", err)
	}
	if last := ft.sent[len(ft.sent)-1]; last != ":CH1:PWR:RF:ON" {
		t.Fatalf("unexpected command sent: %q", last)
	}
}

func TestSetStateCaseMismatch(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:PWR:RF:ON": "RF POWER on",
	})
	if err := ch.SetState(On); !IsProtocolError(err) {
		t.Fatalf("expected ProtocolError on case mismatch, got %v", err)
	}
}

func TestSetStateInvalidValue(t *testing.T) {
	ch, ft := newTestChannel(t, nil)
	before := len(ft.sent)

	if err := ch.SetState("on"); err != ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if len(ft.sent) != before {
		t.Fatalf("invalid state sent commands: %v", ft.sent[before:])
	}
}

func TestState(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:PWR:RF?": "OFF",
	})
	st, err := ch.State()
	if err != nil {
		t.Fatalf("State returned error: %v", err)
	}
	if st != Off {
		t.Fatalf("State = %q, want OFF", st)
	}
}

func TestStateUnknownReply(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:PWR:RF?": "MAYBE",
	})
	if _, err := ch.State(); !IsParseError(err) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestFrequency(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:FREQ?": "800.0 MHz",
	})
	f, err := ch.Frequency()
	if err != nil {
		t.Fatalf("Frequency returned error: %v", err)
	}
	if f != 800e6 {
		t.Fatalf("Frequency = %v, want 8e8", f)
	}
}

func TestPower(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:PWR?": "-10",
	})
	p, err := ch.Power()
	if err != nil {
		t.Fatalf("Power returned error: %v", err)
	}
	if p != -10 {
		t.Fatalf("Power = %v, want -10", p)
	}
}

func TestSetPowerAcknowledged(t *testing.T) {
	ch, ft := newTestChannel(t, map[string]string{
		":CH1:PWR:-10dBm": "Power Set",
	})
	if err := ch.SetPower(-10); err != nil {
		t.Fatalf("SetPower returned error: %v", err)
	}
	if last := ft.sent[len(ft.sent)-1]; last != ":CH1:PWR:-10dBm" {
		t.Fatalf("unexpected command sent: %q", last)
	}
}

func TestSetPowerOutOfRange(t *testing.T) {
	ch, _ := newTestChannel(t, nil)
	if err := ch.SetPower(25); !IsRangeError(err) {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

func TestSetPhaseAcknowledged(t *testing.T) {
	ch, ft := newTestChannel(t, map[string]string{
		":CH1:PHASE:90deg": "Phase Set",
	})
	if err := ch.SetPhase(90); err != nil {
		t.Fatalf("SetPhase returned error: %v", err)
	}
	if last := ft.sent[len(ft.sent)-1]; last != ":CH1:PHASE:90deg" {
		t.Fatalf("unexpected command sent: %q", last)
	}
}

func TestSetPhaseOutOfRange(t *testing.T) {
	ch, _ := newTestChannel(t, nil)
	if err := ch.SetPhase(-5); !IsRangeError(err) {
		t.Fatalf("expected RangeError, got %v", err)
	}
}

func TestTemperatureParsesToFloat(t *testing.T) {
	ch, _ := newTestChannel(t, map[string]string{
		":CH1:TEMP?": "Temp = 54C",
	})
	temp, err := ch.Temperature()
	if err != nil {
		t.Fatalf("Temperature returned error: %v", err)
	}
	if temp != 54.0 {
		t.Fatalf("Temperature = %v, want 54", temp)
	}
}
