package hs900

import (
	"fmt"
	"strconv"
)

// ChannelState is the RF output state of one channel.
type ChannelState string

const (
	On  ChannelState = "ON"
	Off ChannelState = "OFF"
)

// Range holds the [Min, Max] bounds the instrument advertised for one
// settable parameter.
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Channel drives one output channel (CH1, CH2, ...) of the generator.
// Bounds are queried once at construction and held for the channel's
// lifetime; everything else is a fresh round trip on every call, the
// driver caches nothing.
type Channel struct {
	id string
	t  Transport

	freq  Range // Hz
	power Range // dBm
	phase Range // deg
}

// newChannel queries the channel's immutable bounds from the instrument.
func newChannel(t Transport, id string) (*Channel, error) {
	ch := &Channel{id: id, t: t}

	var err error
	if ch.freq, err = ch.askRange(
		fmt.Sprintf(":%s:Freq:MIN?", id),
		fmt.Sprintf(":%s:Freq:MAX?", id),
		parseFrequency); err != nil {
		return nil, err
	}
	if ch.power, err = ch.askRange(
		fmt.Sprintf(":%s:PWR:MIN?", id),
		fmt.Sprintf(":%s:PWR:MAX?", id),
		parsePower); err != nil {
		return nil, err
	}
	if ch.phase, err = ch.askRange(
		fmt.Sprintf(":%s:PHASE:MIN?", id),
		fmt.Sprintf(":%s:PHASE:MAX?", id),
		parsePhase); err != nil {
		return nil, err
	}
	return ch, nil
}

func (ch *Channel) askRange(minCmd, maxCmd string, parse func(cmd, raw string) (float64, error)) (Range, error) {
	var r Range
	reply, err := ch.t.Ask(minCmd)
	if err != nil {
		return r, err
	}
	if r.Min, err = parse(minCmd, reply); err != nil {
		return r, err
	}
	reply, err = ch.t.Ask(maxCmd)
	if err != nil {
		return r, err
	}
	if r.Max, err = parse(maxCmd, reply); err != nil {
		return r, err
	}
	return r, nil
}

// ID returns the instrument-side channel identifier, e.g. "CH1".
func (ch *Channel) ID() string { return ch.id }

// FrequencyBounds returns the frequency limits in Hz.
func (ch *Channel) FrequencyBounds() Range { return ch.freq }

// PowerBounds returns the power limits in dBm.
func (ch *Channel) PowerBounds() Range { return ch.power }

// PhaseBounds returns the phase limits in degrees.
func (ch *Channel) PhaseBounds() Range { return ch.phase }

// askAck sends a set command and checks the instrument's echo against the
// exact acknowledgment literal. The instrument is the source of truth:
// any other reply means the write cannot be trusted, and the protocol
// has no idempotent retry, so the mismatch surfaces as a ProtocolError.
func (ch *Channel) askAck(cmd, want string) error {
	reply, err := ch.t.Ask(cmd)
	if err != nil {
		return err
	}
	if reply != want {
		return &ProtocolError{Command: cmd, Expected: want, Reply: reply}
	}
	return nil
}

// State queries whether the channel's RF output is on.
func (ch *Channel) State() (ChannelState, error) {
	cmd := fmt.Sprintf(":%s:PWR:RF?", ch.id)
	reply, err := ch.t.Ask(cmd)
	if err != nil {
		return "", err
	}
	switch ChannelState(reply) {
	case On, Off:
		return ChannelState(reply), nil
	}
	return "", &ParseError{Command: cmd, Reply: reply, Reason: "want ON or OFF"}
}

// SetState switches the RF output. The instrument acknowledges with
// "RF POWER ON" / "RF POWER OFF", case and all.
func (ch *Channel) SetState(state ChannelState) error {
	if state != On && state != Off {
		return ErrInvalidState
	}
	cmd := fmt.Sprintf(":%s:PWR:RF:%s", ch.id, state)
	return ch.askAck(cmd, "RF POWER "+string(state))
}

// Frequency queries the output frequency in Hz.
func (ch *Channel) Frequency() (float64, error) {
	cmd := fmt.Sprintf(":%s:FREQ?", ch.id)
	reply, err := ch.t.Ask(cmd)
	if err != nil {
		return 0, err
	}
	return parseFrequency(cmd, reply)
}

// SetFrequency sets the output frequency in Hz. Values outside the
// queried bounds fail before anything is sent.
func (ch *Channel) SetFrequency(hz float64) error {
	if !ch.freq.contains(hz) {
		return &RangeError{Param: "frequency", Value: hz,
			Min: ch.freq.Min, Max: ch.freq.Max}
	}
	// The instrument takes frequency in GHz.
	cmd := fmt.Sprintf(":%s:FREQ:%sGHz", ch.id,
		strconv.FormatFloat(hz/1e9, 'f', -1, 64))
	return ch.askAck(cmd, "Frequency Set")
}

// Power queries the output power in dBm.
func (ch *Channel) Power() (float64, error) {
	cmd := fmt.Sprintf(":%s:PWR?", ch.id)
	reply, err := ch.t.Ask(cmd)
	if err != nil {
		return 0, err
	}
	return parsePower(cmd, reply)
}

// SetPower sets the output power in dBm.
func (ch *Channel) SetPower(dbm float64) error {
	if !ch.power.contains(dbm) {
		return &RangeError{Param: "power", Value: dbm,
			Min: ch.power.Min, Max: ch.power.Max}
	}
	cmd := fmt.Sprintf(":%s:PWR:%sdBm", ch.id,
		strconv.FormatFloat(dbm, 'f', -1, 64))
	return ch.askAck(cmd, "Power Set")
}

// Phase queries the output phase in degrees.
func (ch *Channel) Phase() (float64, error) {
	cmd := fmt.Sprintf(":%s:PHASE?", ch.id)
	reply, err := ch.t.Ask(cmd)
	if err != nil {
		return 0, err
	}
	return parsePhase(cmd, reply)
}

// SetPhase sets the output phase in degrees.
func (ch *Channel) SetPhase(deg float64) error {
	if !ch.phase.contains(deg) {
		return &RangeError{Param: "phase", Value: deg,
			Min: ch.phase.Min, Max: ch.phase.Max}
	}
	cmd := fmt.Sprintf(":%s:PHASE:%sdeg", ch.id,
		strconv.FormatFloat(deg, 'f', -1, 64))
	return ch.askAck(cmd, "Phase Set")
}

// Temperature queries the channel temperature in degrees Celsius.
// Reply shape is "... Temp = <v>C".
func (ch *Channel) Temperature() (float64, error) {
	cmd := fmt.Sprintf(":%s:TEMP?", ch.id)
	reply, err := ch.t.Ask(cmd)
	if err != nil {
		return 0, err
	}
	return parseTemperature(cmd, reply)
}
