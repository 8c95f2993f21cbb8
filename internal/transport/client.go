package transport

import (
	"crypto/tls"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const defaultHandshakeTimeout = 30 * time.Second

// Client is a WebSocket transport to the collector. TLS settings are
// installed by the secure configurator before the first Connect.
//
// Connect, SendText, and Close come from the single streaming goroutine;
// IsConnected is also read by the debug HTTP handler, so the connection
// pointer is guarded by a lock.
type Client struct {
	path   string
	logger *zap.Logger

	tlsConfig *tls.Config
	timeout   time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a disconnected client that will dial wss://host:port<path>.
func NewClient(path string, logger *zap.Logger) *Client {
	return &Client{path: path, logger: logger}
}

// ConfigureTLS installs the trust settings decided by the secure
// configurator. A zero timeout keeps the default handshake timeout.
func (c *Client) ConfigureTLS(cfg *tls.Config, timeout time.Duration) {
	c.tlsConfig = cfg
	c.timeout = timeout
}

// Connect dials the collector over TLS. Returns false on any failure.
func (c *Client) Connect(host string, port int) bool {
	u := url.URL{
		Scheme: "wss",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   c.path,
	}

	timeout := c.timeout
	if timeout == 0 {
		timeout = defaultHandshakeTimeout
	}
	dialer := websocket.Dialer{
		TLSClientConfig:  c.tlsConfig,
		HandshakeTimeout: timeout,
	}

	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		c.logger.Error("collector dial failed",
			zap.String("url", u.String()),
			zap.Error(err),
		)
		return false
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.logger.Info("connected to collector", zap.String("url", u.String()))
	return true
}

// SendText writes one text frame. Returns false when disconnected or when
// the write fails; a failed write tears the connection down.
func (c *Client) SendText(msg string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return false
	}

	if c.timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
		c.logger.Error("send failed", zap.Error(err))
		c.conn.Close()
		c.conn = nil
		return false
	}
	return true
}

// Close shuts the connection down. Safe to call when disconnected.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.conn.Close()
	c.conn = nil
}

// IsConnected reports whether a connection is currently established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}
