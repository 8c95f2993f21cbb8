package transport_test

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/voxlink/audio-uplink/internal/secure"
	"github.com/voxlink/audio-uplink/internal/transport"
)

// startCollector runs a TLS WebSocket server that forwards received text
// frames to the returned channel.
func startCollector(t *testing.T) (*httptest.Server, string, int, <-chan string) {
	t.Helper()

	received := make(chan string, 16)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(msg)
		}
	}))

	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("split listener addr: %v", err)
	}
	port, _ := strconv.Atoi(portStr)
	return srv, host, port, received
}

func TestClientConnectSendClose(t *testing.T) {
	srv, host, port, received := startCollector(t)
	defer srv.Close()

	client := transport.NewClient("/ingest", zap.NewNop())

	// The test server uses a self-signed certificate, so configure the
	// client in development trust-all mode.
	cfg := secure.NewConfigurator(secure.ModeDevelopment, zap.NewNop())
	cfg.Setup(client, true)

	if !client.Connect(host, port) {
		t.Fatal("connect failed")
	}
	if !client.IsConnected() {
		t.Error("expected IsConnected after successful dial")
	}

	if !client.SendText(`{"type":"audio_chunk"}`) {
		t.Fatal("send failed")
	}

	select {
	case msg := <-received:
		if msg != `{"type":"audio_chunk"}` {
			t.Errorf("collector received %q", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("collector did not receive the frame")
	}

	client.Close()
	if client.IsConnected() {
		t.Error("expected disconnected after Close")
	}
}

func TestClientConnectRejectsUntrustedCert(t *testing.T) {
	srv, host, port, _ := startCollector(t)
	defer srv.Close()

	client := transport.NewClient("/ingest", zap.NewNop())

	// Pinned-CA production setup must reject the test server's
	// self-signed certificate.
	cfg := secure.NewConfigurator(secure.ModeProduction, zap.NewNop())
	cfg.Setup(client, false)

	if client.Connect(host, port) {
		t.Error("connect should fail chain validation against the pinned CA")
	}
	if client.IsConnected() {
		t.Error("client must not report connected after a failed dial")
	}
}

func TestClientSendWhileDisconnected(t *testing.T) {
	client := transport.NewClient("/ingest", zap.NewNop())
	if client.SendText("hello") {
		t.Error("send on a disconnected client must fail")
	}
}

func TestClientCloseWhileDisconnected(t *testing.T) {
	client := transport.NewClient("/ingest", zap.NewNop())
	client.Close() // must not panic
}
