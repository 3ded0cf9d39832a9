package mdns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

// Services browsed for LAN-attached instruments. Raw-socket SCPI boxes
// advertise _scpi-raw._tcp; LXI-conformant ones also announce _lxi._tcp.
var instrumentServices = []string{"_scpi-raw._tcp", "_lxi._tcp"}

// Host represents a discovered SCPI-capable instrument
type Host struct {
	Instance  string // Advertised name: "HS9004B RF Synthesizer"
	Hostname  string // DNS hostname: "hs900.local."
	Addresses []net.IP
	Port      int
	TXT       []string
}

// DiscoverInstruments performs a blocking mDNS browse for SCPI/LXI
// services. It returns cleaned and deduplicated host entries.
func DiscoverInstruments(timeoutSeconds int) ([]Host, error) {
	resultMap := make(map[string]Host)

	for _, service := range instrumentServices {
		if err := browse(service, timeoutSeconds, resultMap); err != nil {
			return nil, err
		}
	}

	out := make([]Host, 0, len(resultMap))
	for _, h := range resultMap {
		out = append(out, h)
	}
	return out, nil
}

func browse(service string, timeoutSeconds int, resultMap map[string]Host) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("resolver error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	// Consumer goroutine
	done := make(chan struct{})
	go func() {
		for {
			select {
			case e, ok := <-entries:
				if !ok {
					close(done)
					return
				}
				if e == nil {
					continue
				}

				// Consolidate IPs (both v4 and v6)
				addrs := make([]net.IP, 0, len(e.AddrIPv4)+len(e.AddrIPv6))
				addrs = append(addrs, e.AddrIPv4...)
				addrs = append(addrs, e.AddrIPv6...)

				// Pick a stable key
				key := fmt.Sprintf("%s|%d", e.HostName, e.Port)

				resultMap[key] = Host{
					Instance:  cleanInstance(e.Instance),
					Hostname:  e.HostName,
					Addresses: addrs,
					Port:      e.Port,
					TXT:       append([]string{}, e.Text...),
				}

			case <-ctx.Done():
				close(done)
				return
			}
		}
	}()

	// Start browsing
	if err := resolver.Browse(ctx, service, "local.", entries); err != nil {
		return fmt.Errorf("browse error: %w", err)
	}

	<-done // wait for results
	return nil
}

// cleanInstance removes Zeroconf escape sequences: "\ " => " "
func cleanInstance(s string) string {
	return strings.ReplaceAll(s, `\ `, " ")
}
