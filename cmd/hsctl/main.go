// hsctl is a one-shot get/set tool for a single HS900 parameter.
//
// Examples:
//
//	hsctl -addr hs900.local:5025 -ch CH1 -param frequency
//	hsctl -addr hs900.local:5025 -ch CH1 -param frequency -value 2.4e9
//	hsctl -serial /dev/ttyUSB0 -param ref
package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/goburrow/serial"

	"github.com/qulab/GoSigGen/hs900"
)

func main() {
	addr := flag.String("addr", "", "Instrument network address (host or host:port)")
	serialPort := flag.String("serial", "", "Serial port, e.g. /dev/ttyUSB0 (overrides -addr)")
	baud := flag.Int("baud", 9600, "Serial baud rate")
	chID := flag.String("ch", "CH1", "Channel id")
	param := flag.String("param", "", "Parameter: state|frequency|power|phase|temp|ref|pll")
	value := flag.String("value", "", "Value to set (omit to query)")
	strict := flag.Bool("strict", false, "Fail on unknown instrument models")
	flag.Parse()

	if *param == "" {
		log.Fatal("missing -param")
	}

	opts := hs900.Options{StrictModelCheck: *strict}

	var dev *hs900.Device
	var err error
	switch {
	case *serialPort != "":
		dev, err = hs900.OpenSerial(&serial.Config{
			Address:  *serialPort,
			BaudRate: *baud,
			DataBits: 8,
			StopBits: 1,
			Parity:   "N",
			Timeout:  5 * time.Second,
		}, opts)
	case *addr != "":
		dev, err = hs900.Dial(*addr, opts)
	default:
		log.Fatal("need -addr or -serial")
	}
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer dev.Close()

	if err := execute(dev, *chID, *param, *value); err != nil {
		log.Fatal(err)
	}
}

func execute(dev *hs900.Device, chID, param, value string) error {
	// Device-wide parameters first; they need no channel.
	switch param {
	case "ref":
		if value == "" {
			ref, err := dev.ReferenceStatus()
			if err != nil {
				return err
			}
			fmt.Printf("%s %.0fMHz\n", ref.Source, ref.FrequencyHz/1e6)
			return nil
		}
		return setReference(dev, value)
	case "pll":
		status, err := dev.PLLStatus()
		if err != nil {
			return err
		}
		fmt.Println(status)
		return nil
	}

	ch, ok := dev.Channel(chID)
	if !ok {
		return fmt.Errorf("no channel %q on this instrument", chID)
	}

	switch param {
	case "state":
		if value == "" {
			st, err := ch.State()
			if err != nil {
				return err
			}
			fmt.Println(st)
			return nil
		}
		return ch.SetState(hs900.ChannelState(value))
	case "frequency":
		return getSetFloat(value, ch.Frequency, ch.SetFrequency, "%g Hz\n")
	case "power":
		return getSetFloat(value, ch.Power, ch.SetPower, "%g dBm\n")
	case "phase":
		return getSetFloat(value, ch.Phase, ch.SetPhase, "%g deg\n")
	case "temp":
		t, err := ch.Temperature()
		if err != nil {
			return err
		}
		fmt.Printf("%g C\n", t)
		return nil
	}
	return fmt.Errorf("unknown parameter %q", param)
}

func getSetFloat(value string, get func() (float64, error), set func(float64) error, format string) error {
	if value == "" {
		v, err := get()
		if err != nil {
			return err
		}
		fmt.Printf(format, v)
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("bad value %q: %w", value, err)
	}
	return set(v)
}

// setReference understands "int", "ext10" and "ext100".
func setReference(dev *hs900.Device, value string) error {
	switch value {
	case "int":
		return dev.SetInternalReference(100e6)
	case "ext10":
		return dev.SetExternalReference(10e6)
	case "ext100":
		return dev.SetExternalReference(100e6)
	}
	return fmt.Errorf("unknown reference %q (want int, ext10 or ext100)", value)
}
