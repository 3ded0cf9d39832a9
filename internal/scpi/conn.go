package scpi

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/goburrow/serial"
)

// DefaultPort is the raw-socket SCPI port most LXI instruments listen on.
const DefaultPort = "5025"

// Conn is a line-oriented connection to a SCPI instrument. One command
// out, one reply line back; no pipelining. Callers must serialize access,
// the Conn does no locking of its own.
type Conn struct {
	Address string
	Timeout time.Duration
	Logger  *log.Logger

	rwc    io.ReadWriteCloser
	nc     net.Conn // non-nil when rwc is a network socket; used for deadlines
	reader *bufio.Reader
}

// ---------- Construction / lifecycle ----------

func New(addr string) *Conn {
	return &Conn{
		Address: addr,
		Timeout: 5 * time.Second,
	}
}

// Connect dials the instrument over TCP. Transient dial failures are
// retried with exponential backoff; command round trips are never retried.
func (c *Conn) Connect() error {
	addr := c.Address
	if !strings.Contains(addr, ":") {
		addr = net.JoinHostPort(addr, DefaultPort)
	}

	op := func() error {
		nc, err := net.DialTimeout("tcp", addr, c.Timeout)
		if err != nil {
			return err
		}
		c.attach(nc)
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	if err := backoff.Retry(op, backoff.WithMaxRetries(b, 4)); err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	return nil
}

// Dial is the usual way to get a connected Conn.
func Dial(addr string) (*Conn, error) {
	c := New(addr)
	if err := c.Connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// OpenSerial opens an RS-232 attached instrument. The serial driver owns
// the read timeout, so cfg.Timeout should be set by the caller.
func OpenSerial(cfg *serial.Config) (*Conn, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Address, err)
	}
	c := New(cfg.Address)
	c.SetConn(port)
	return c, nil
}

// SetConn reinjects an already-open stream (tests, SSH tunnels, serial
// ports). Any previous stream is abandoned, not closed.
func (c *Conn) SetConn(rwc io.ReadWriteCloser) {
	c.rwc = rwc
	if nc, ok := rwc.(net.Conn); ok {
		c.nc = nc
	} else {
		c.nc = nil
	}
	c.reader = bufio.NewReader(rwc)
}

func (c *Conn) attach(nc net.Conn) {
	c.rwc = nc
	c.nc = nc
	c.reader = bufio.NewReader(nc)
}

func (c *Conn) Close() error {
	if c.rwc != nil {
		return c.rwc.Close()
	}
	return nil
}

func (c *Conn) SetTimeout(d time.Duration) {
	c.Timeout = d
}

// ---------- Logging ----------

func (c *Conn) logf(format string, args ...any) {
	if c == nil || c.Logger == nil {
		return
	}
	c.Logger.Printf(format, args...)
}

func (c *Conn) SetLogger(l *log.Logger) {
	c.Logger = l
}

// ---------- Line I/O ----------

// ensureNewline makes sure commands always go out LF-terminated.
func ensureNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}

func (c *Conn) applyReadDeadline() {
	if c.nc != nil && c.Timeout > 0 {
		_ = c.nc.SetReadDeadline(time.Now().Add(c.Timeout))
	}
}

func (c *Conn) applyWriteDeadline() {
	if c.nc != nil && c.Timeout > 0 {
		_ = c.nc.SetWriteDeadline(time.Now().Add(c.Timeout))
	}
}

// writeLine writes one LF-terminated command line, handling short writes.
func (c *Conn) writeLine(cmd string) error {
	if c.rwc == nil {
		return fmt.Errorf("writeLine: not connected")
	}
	b := []byte(ensureNewline(cmd))
	for len(b) > 0 {
		c.applyWriteDeadline()
		n, err := c.rwc.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// readLine reads one reply line and trims the CR/LF tail.
func (c *Conn) readLine() (string, error) {
	if c.reader == nil {
		return "", fmt.Errorf("readLine: not connected")
	}
	c.applyReadDeadline()
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ---------- Request/response ----------

// Ask sends one command and blocks for the single reply line.
func (c *Conn) Ask(cmd string) (string, error) {
	if err := c.writeLine(cmd); err != nil {
		return "", err
	}
	reply, err := c.readLine()
	if err != nil {
		return "", fmt.Errorf("read reply to %q: %w", cmd, err)
	}
	c.logf("[scpi] %q -> %q", cmd, reply)
	return reply, nil
}

// Send writes a command with no reply expected.
func (c *Conn) Send(cmd string) error {
	c.logf("[scpi] %q (no reply)", cmd)
	return c.writeLine(cmd)
}
