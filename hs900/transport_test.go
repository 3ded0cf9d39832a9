package hs900

import "fmt"

// fakeTransport replays canned replies keyed by the exact command sent.
type fakeTransport struct {
	replies map[string]string
	sent    []string
	closed  bool
}

func (f *fakeTransport) Ask(cmd string) (string, error) {
	f.sent = append(f.sent, cmd)
	reply, ok := f.replies[cmd]
	if !ok {
		return "", fmt.Errorf("fake transport: unexpected command %q", cmd)
	}
	return reply, nil
}

func (f *fakeTransport) Send(cmd string) error {
	f.sent = append(f.sent, cmd)
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// boundsFor returns the six bound queries a channel issues at construction.
func boundsFor(ch string) map[string]string {
	return map[string]string{
		":" + ch + ":Freq:MIN?":  "100 kHz",
		":" + ch + ":Freq:MAX?":  "6 GHz",
		":" + ch + ":PWR:MIN?":   "-100 dBm",
		":" + ch + ":PWR:MAX?":   "20",
		":" + ch + ":PHASE:MIN?": "0",
		":" + ch + ":PHASE:MAX?": "360deg",
	}
}

func merge(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func deviceReplies() map[string]string {
	return merge(
		map[string]string{
			"*IDN?":    "Holzworth Instrumentation, HS9002B, #012, Ver 2.01",
			":ATTACH?": ":REF:CH1:CH2:",
		},
		boundsFor("CH1"),
		boundsFor("CH2"),
	)
}
