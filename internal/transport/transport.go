// Package transport provides the text-message channel to the collector.
package transport

// Transport is a connected, send-capable text-message channel. One SendText
// call is exactly one delivery attempt — no retry, no partial success.
type Transport interface {
	Connect(host string, port int) bool
	SendText(msg string) bool
	Close()
	IsConnected() bool
}
