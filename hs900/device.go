// Package hs900 drives Holzworth HS900-series multi-channel RF signal
// generators over their colon-delimited ASCII command protocol. Every
// operation is one blocking write-then-read round trip; setters verify
// the instrument's literal acknowledgment instead of trusting the write.
//
// The driver holds no mutable instrument state apart from the per-channel
// bounds captured at connect time. It does no locking: callers that share
// a Device across goroutines must serialize access themselves.
package hs900

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/goburrow/serial"

	"github.com/qulab/GoSigGen/internal/scpi"
)

// RefSource identifies which reference clock drives the instrument.
type RefSource string

const (
	RefInternal RefSource = "Internal"
	RefExternal RefSource = "External"
)

// Reference is the active reference clock as reported by the instrument.
type Reference struct {
	Source      RefSource
	FrequencyHz float64
}

// Identity is the *IDN? response split into its four fields.
type Identity struct {
	Vendor   string
	Model    string
	Serial   string
	Firmware string
}

// knownModels lists the HS900-B variants this driver has been written
// against.
var knownModels = []string{
	"HS9001B", "HS9002B", "HS9003B", "HS9004B",
	"HS9005B", "HS9006B", "HS9007B", "HS9008B",
}

// Options configures Device construction.
type Options struct {
	// StrictModelCheck makes New fail with a ConfigurationError when the
	// instrument reports a model outside knownModels. When false the
	// mismatch is only logged and construction continues.
	StrictModelCheck bool

	// Logger receives the lax-mode model warning and nothing else.
	// nil means log.Default().
	Logger *log.Logger
}

// Device is the instrument-level adapter: identity, channel discovery,
// and the device-wide reference clock. Channels hang off it.
type Device struct {
	t    Transport
	opts Options

	idn      Identity
	channels []*Channel
	byID     map[string]*Channel
}

// New builds a Device over an already-open transport: it identifies the
// instrument, validates the model, discovers the attached channels, and
// queries each channel's bounds.
func New(t Transport, opts Options) (*Device, error) {
	d := &Device{t: t, opts: opts, byID: make(map[string]*Channel)}

	if err := d.identify(); err != nil {
		return nil, err
	}
	if err := d.validateModel(); err != nil {
		return nil, err
	}

	ids, err := d.DiscoverChannels()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		ch, err := newChannel(t, id)
		if err != nil {
			return nil, fmt.Errorf("channel %s: %w", id, err)
		}
		d.channels = append(d.channels, ch)
		d.byID[id] = ch
	}
	return d, nil
}

// Dial connects to a LAN-attached instrument (host or host:port) and
// runs the full New sequence.
func Dial(addr string, opts Options) (*Device, error) {
	c, err := scpi.Dial(addr)
	if err != nil {
		return nil, err
	}
	d, err := New(c, opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	return d, nil
}

// OpenSerial connects to an RS-232 attached instrument.
func OpenSerial(cfg *serial.Config, opts Options) (*Device, error) {
	c, err := scpi.OpenSerial(cfg)
	if err != nil {
		return nil, err
	}
	d, err := New(c, opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying transport.
func (d *Device) Close() error {
	return d.t.Close()
}

func (d *Device) logf(format string, args ...any) {
	l := d.opts.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf(format, args...)
}

// ---------- Identity / model ----------

func (d *Device) identify() error {
	const cmd = "*IDN?"
	reply, err := d.t.Ask(cmd)
	if err != nil {
		return err
	}
	parts := strings.Split(reply, ",")
	if len(parts) < 2 {
		return &ParseError{Command: cmd, Reply: reply,
			Reason: "want \"vendor, model, serial, firmware\""}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	d.idn = Identity{Vendor: parts[0], Model: parts[1]}
	if len(parts) > 2 {
		d.idn.Serial = parts[2]
	}
	if len(parts) > 3 {
		d.idn.Firmware = parts[3]
	}
	return nil
}

func (d *Device) validateModel() error {
	if slices.Contains(knownModels, d.idn.Model) {
		return nil
	}
	if d.opts.StrictModelCheck {
		return &ConfigurationError{Model: d.idn.Model, Known: knownModels}
	}
	d.logf("hs900: unknown model %q, continuing anyway (known: %s)",
		d.idn.Model, strings.Join(knownModels, ", "))
	return nil
}

// Identity returns the parsed *IDN? fields.
func (d *Device) Identity() Identity { return d.idn }

// Model returns the instrument model string, e.g. "HS9004B".
func (d *Device) Model() string { return d.idn.Model }

// ---------- Channels ----------

// DiscoverChannels asks the instrument which channels are attached.
// The reply is colon-delimited framing around the channel ids, e.g.
// ":REF:CH1:CH2:"; the first two tokens and the last are boilerplate.
func (d *Device) DiscoverChannels() ([]string, error) {
	const cmd = ":ATTACH?"
	reply, err := d.t.Ask(cmd)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(reply, ":")
	if len(parts) < 3 {
		return nil, &ParseError{Command: cmd, Reply: reply,
			Reason: "want \":REF:<CH>:...:\""}
	}
	return parts[2 : len(parts)-1], nil
}

// Channels returns the channels in discovery order.
func (d *Device) Channels() []*Channel { return d.channels }

// Channel looks a channel up by its instrument id, e.g. "CH1".
func (d *Device) Channel(id string) (*Channel, bool) {
	ch, ok := d.byID[id]
	return ch, ok
}

// ---------- Reference clock ----------

// Reference transitions happen only through SetInternalReference and
// SetExternalReference; PLL lock is an observation, never driven here.

// ReferenceStatus reports the active reference source and frequency.
func (d *Device) ReferenceStatus() (Reference, error) {
	const cmd = ":REF:STATUS?"
	reply, err := d.t.Ask(cmd)
	if err != nil {
		return Reference{}, err
	}
	return parseReference(cmd, reply)
}

// InternalReference reports the internal reference frequency, with
// active=false when the instrument is running on the external input.
func (d *Device) InternalReference() (float64, bool, error) {
	return d.referenceIf(RefInternal)
}

// ExternalReference reports the external reference frequency, with
// active=false when the instrument is running on its internal clock.
func (d *Device) ExternalReference() (float64, bool, error) {
	return d.referenceIf(RefExternal)
}

func (d *Device) referenceIf(src RefSource) (float64, bool, error) {
	ref, err := d.ReferenceStatus()
	if err != nil {
		return 0, false, err
	}
	if ref.Source != src {
		return 0, false, nil
	}
	return ref.FrequencyHz, true, nil
}

// SetInternalReference switches to the internal 100 MHz reference.
// The instrument supports no other internal frequency.
func (d *Device) SetInternalReference(hz float64) error {
	if hz != 100e6 {
		return &RangeError{Param: "internal reference frequency",
			Value: hz, Min: 100e6, Max: 100e6}
	}
	return d.askAck(":REF:INT:100MHz",
		"Reference Set to 100MHz Internal, PLL Disabled")
}

// SetExternalReference locks to an external reference of 10 or 100 MHz.
func (d *Device) SetExternalReference(hz float64) error {
	if hz != 10e6 && hz != 100e6 {
		return &RangeError{Param: "external reference frequency",
			Value: hz, Min: 10e6, Max: 100e6}
	}
	mhz := int(hz / 1e6)
	cmd := fmt.Sprintf(":REF:EXT:%dMHz", mhz)
	want := fmt.Sprintf("Reference Set to %dMHz External, PLL Enabled", mhz)
	return d.askAck(cmd, want)
}

// PLLStatus passes the instrument's PLL lock report through verbatim.
func (d *Device) PLLStatus() (string, error) {
	return d.t.Ask(":REF:PLL?")
}

func (d *Device) askAck(cmd, want string) error {
	reply, err := d.t.Ask(cmd)
	if err != nil {
		return err
	}
	if reply != want {
		return &ProtocolError{Command: cmd, Expected: want, Reply: reply}
	}
	return nil
}
