package scpi

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestAskRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New("test")
	c.SetConn(client)

	done := make(chan struct{})
	var received string

	go func() {
		defer close(done)

		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		received = string(buf[:n])

		server.Write([]byte("800.0 MHz\n"))
	}()

	reply, err := c.Ask(":CH1:FREQ?")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	<-done

	if received != ":CH1:FREQ?\n" {
		t.Fatalf("unexpected command on the wire: %q", received)
	}
	if reply != "800.0 MHz" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestAskTrimsCRLF(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New("test")
	c.SetConn(client)

	go func() {
		server.Read(make([]byte, 64))
		server.Write([]byte("Frequency Set\r\n"))
	}()

	reply, err := c.Ask(":CH1:FREQ:1GHz")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if reply != "Frequency Set" {
		t.Fatalf("reply not trimmed: %q", reply)
	}
}

func TestSendWritesOnly(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New("test")
	c.SetConn(client)

	done := make(chan struct{})
	var received string

	go func() {
		defer close(done)
		buf := make([]byte, 64)
		n, _ := server.Read(buf)
		received = string(buf[:n])
	}()

	if err := c.Send(":ATTACH?"); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	<-done

	if received != ":ATTACH?\n" {
		t.Fatalf("unexpected command on the wire: %q", received)
	}
}

func TestAskNotConnected(t *testing.T) {
	c := New("test")
	if _, err := c.Ask("*IDN?"); err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Fatalf("expected not connected error, got %v", err)
	}
}

func TestAskReadTimeout(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	c := New("test")
	c.SetConn(client)
	c.SetTimeout(50 * time.Millisecond)

	go func() {
		// Swallow the command, never reply.
		server.Read(make([]byte, 64))
	}()

	if _, err := c.Ask("*IDN?"); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestEnsureNewline(t *testing.T) {
	if got := ensureNewline(":CH1:FREQ?"); got != ":CH1:FREQ?\n" {
		t.Fatalf("ensureNewline did not append: %q", got)
	}
	if got := ensureNewline(":CH1:FREQ?\n"); got != ":CH1:FREQ?\n" {
		t.Fatalf("ensureNewline double-appended: %q", got)
	}
}
