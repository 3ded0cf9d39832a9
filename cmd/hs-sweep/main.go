// hs-sweep steps one channel of an HS900 across a frequency span,
// holding each point for the dwell time. The instrument has no sweep
// engine, so every point is an explicit set-frequency round trip.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/qulab/GoSigGen/hs900"
	"github.com/qulab/GoSigGen/internal/sweep"
)

func main() {
	addr := flag.String("addr", "", "Instrument network address")
	chID := flag.String("ch", "CH1", "Channel id")
	start := flag.Float64("start", 1e9, "Start frequency in Hz")
	stop := flag.Float64("stop", 2e9, "Stop frequency in Hz")
	points := flag.Int("points", 11, "Number of sweep points")
	dwell := flag.Duration("dwell", 100*time.Millisecond, "Dwell per point")
	logSpaced := flag.Bool("log", false, "Logarithmic point spacing")
	power := flag.Float64("power", 0, "Output power in dBm (set before the sweep when -setpower)")
	setPower := flag.Bool("setpower", false, "Set -power before sweeping")
	flag.Parse()

	if *addr == "" {
		log.Fatal("need -addr")
	}

	dev, err := hs900.Dial(*addr, hs900.Options{})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer dev.Close()

	ch, ok := dev.Channel(*chID)
	if !ok {
		log.Fatalf("no channel %q on this instrument", *chID)
	}

	var freqs []float64
	if *logSpaced {
		freqs, err = sweep.Logarithmic(*start, *stop, *points)
	} else {
		freqs, err = sweep.Linear(*start, *stop, *points)
	}
	if err != nil {
		log.Fatal(err)
	}

	bounds := ch.FrequencyBounds()
	clipped := sweep.Clip(freqs, bounds.Min, bounds.Max)
	if len(clipped) < len(freqs) {
		log.Printf("clipped %d point(s) outside channel bounds [%g, %g] Hz",
			len(freqs)-len(clipped), bounds.Min, bounds.Max)
	}
	plan := sweep.NewPlan(clipped, *dwell)

	if *setPower {
		if err := ch.SetPower(*power); err != nil {
			log.Fatalf("set power: %v", err)
		}
	}
	if err := ch.SetState(hs900.On); err != nil {
		log.Fatalf("rf on: %v", err)
	}
	defer func() {
		if err := ch.SetState(hs900.Off); err != nil {
			log.Printf("rf off: %v", err)
		}
	}()

	log.Printf("sweeping %s: %d points, %s total", *chID,
		len(plan.Points), plan.Duration())
	for i, pt := range plan.Points {
		if err := ch.SetFrequency(pt.FrequencyHz); err != nil {
			log.Fatalf("point %d (%g Hz): %v", i, pt.FrequencyHz, err)
		}
		fmt.Printf("%3d  %14.0f Hz\n", i, pt.FrequencyHz)
		time.Sleep(pt.Dwell)
	}
}
