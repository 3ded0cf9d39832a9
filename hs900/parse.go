package hs900

import (
	"strconv"
	"strings"
)

// The instrument reports frequencies as "<number> <unit>".
var frequencyUnits = map[string]float64{
	"GHz": 1e9,
	"MHz": 1e6,
	"kHz": 1e3,
}

// parseFrequency converts a reply like "800.0 MHz" to Hz.
func parseFrequency(cmd, raw string) (float64, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return 0, &ParseError{Command: cmd, Reply: raw,
			Reason: "want \"<number> <unit>\""}
	}
	mult, ok := frequencyUnits[fields[1]]
	if !ok {
		return 0, &ParseError{Command: cmd, Reply: raw,
			Reason: "unknown frequency unit " + strconv.Quote(fields[1])}
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, &ParseError{Command: cmd, Reply: raw,
			Reason: "bad number " + strconv.Quote(fields[0])}
	}
	return f * mult, nil
}

// parsePower accepts both the bare form "-10" and "-10 dBm".
func parsePower(cmd, raw string) (float64, error) {
	if p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return p, nil
	}
	fields := strings.Fields(raw)
	if len(fields) == 2 {
		if p, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return p, nil
		}
	}
	return 0, &ParseError{Command: cmd, Reply: raw,
		Reason: "want \"<number>\" or \"<number> dBm\""}
}

// parsePhase accepts both the bare form "90" and "90deg" (no space).
func parsePhase(cmd, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if p, err := strconv.ParseFloat(s, 64); err == nil {
		return p, nil
	}
	if t, ok := strings.CutSuffix(s, "deg"); ok {
		if p, err := strconv.ParseFloat(t, 64); err == nil {
			return p, nil
		}
	}
	return 0, &ParseError{Command: cmd, Reply: raw,
		Reason: "want \"<number>\" or \"<number>deg\""}
}

// parseTemperature extracts the value from a reply like "Temp = 54C":
// the token after the last space, with the trailing unit letter dropped.
func parseTemperature(cmd, raw string) (float64, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, &ParseError{Command: cmd, Reply: raw, Reason: "empty reply"}
	}
	last := fields[len(fields)-1]
	v, ok := strings.CutSuffix(last, "C")
	if !ok {
		return 0, &ParseError{Command: cmd, Reply: raw,
			Reason: "want trailing value of the form \"<number>C\""}
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &ParseError{Command: cmd, Reply: raw,
			Reason: "bad number " + strconv.Quote(v)}
	}
	return t, nil
}

// parseReference splits a ":REF:STATUS?" reply like "Internal 100MHz"
// into the active source and its frequency in Hz.
func parseReference(cmd, raw string) (Reference, error) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return Reference{}, &ParseError{Command: cmd, Reply: raw,
			Reason: "want \"<Internal|External> <N>MHz\""}
	}
	var src RefSource
	switch fields[0] {
	case string(RefInternal):
		src = RefInternal
	case string(RefExternal):
		src = RefExternal
	default:
		return Reference{}, &ParseError{Command: cmd, Reply: raw,
			Reason: "unknown reference source " + strconv.Quote(fields[0])}
	}
	mhz, ok := strings.CutSuffix(fields[1], "MHz")
	if !ok {
		return Reference{}, &ParseError{Command: cmd, Reply: raw,
			Reason: "frequency must end in MHz"}
	}
	f, err := strconv.ParseFloat(mhz, 64)
	if err != nil {
		return Reference{}, &ParseError{Command: cmd, Reply: raw,
			Reason: "bad number " + strconv.Quote(mhz)}
	}
	return Reference{Source: src, FrequencyHz: f * 1e6}, nil
}
