package hs900

// Transport is the line-level collaborator the driver talks through.
// Ask performs one blocking write-then-read round trip; Send writes a
// command with no reply expected. Implementations own line termination,
// timeouts, and any reconnect policy. The driver never retries.
//
// internal/scpi provides TCP and serial implementations; tests inject
// scripted fakes.
type Transport interface {
	Ask(cmd string) (string, error)
	Send(cmd string) error
	Close() error
}
