package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/qulab/GoSigGen/hs900"
)

// dial is indirected so tests can intercept the connection attempt.
var dial = hs900.Dial

func run(args []string, out io.Writer, getenv func(string) string) error {
	fs := flag.NewFlagSet("gosiggen", flag.ContinueOnError)
	addr := fs.String("addr", "", "Instrument address (falls back to HS900_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	target := *addr
	if target == "" {
		target = getenv("HS900_ADDR")
	}
	if target == "" {
		return fmt.Errorf("no instrument address: pass --addr or set HS900_ADDR")
	}

	dev, err := dial(target, hs900.Options{})
	if err != nil {
		return err
	}
	defer dev.Close()

	idn := dev.Identity()
	fmt.Fprintf(out, "Connected: %s %s (serial %s, fw %s)\n",
		idn.Vendor, idn.Model, idn.Serial, idn.Firmware)
	for _, ch := range dev.Channels() {
		f := ch.FrequencyBounds()
		p := ch.PowerBounds()
		fmt.Fprintf(out, "  %s: %g-%g Hz, %g-%g dBm\n",
			ch.ID(), f.Min, f.Max, p.Min, p.Max)
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Getenv); err != nil {
		log.Fatal(err)
	}
}
