package secure

import (
	"crypto/tls"
	"testing"
	"time"

	"go.uber.org/zap"
)

type recordingTransport struct {
	cfg     *tls.Config
	timeout time.Duration

	connectCalls int
	connectOK    bool
	closeCalls   int
	connected    bool
}

func (r *recordingTransport) ConfigureTLS(cfg *tls.Config, timeout time.Duration) {
	r.cfg = cfg
	r.timeout = timeout
}

func (r *recordingTransport) Connect(host string, port int) bool {
	r.connectCalls++
	return r.connectOK
}

func (r *recordingTransport) Close() { r.closeCalls++ }

func (r *recordingTransport) IsConnected() bool { return r.connected }

func TestSetupProductionInstallsPinnedCA(t *testing.T) {
	tr := &recordingTransport{}
	c := NewConfigurator(ModeProduction, zap.NewNop())

	c.Setup(tr, false)

	if tr.cfg == nil {
		t.Fatal("transport was not configured")
	}
	if tr.cfg.InsecureSkipVerify {
		t.Error("production setup must not disable certificate validation")
	}
	if tr.cfg.RootCAs == nil {
		t.Error("production setup must install the pinned root CA")
	}
	if tr.timeout != ConnectTimeout {
		t.Errorf("expected timeout %v, got %v", ConnectTimeout, tr.timeout)
	}
	if !c.Configured() {
		t.Error("configurator should be configured after Setup")
	}
}

func TestSetupDevRequestOnProductionBuildStaysPinned(t *testing.T) {
	// A production build can never end up in trust-all mode, regardless of
	// what the caller asks for.
	tr := &recordingTransport{}
	c := NewConfigurator(ModeProduction, zap.NewNop())

	c.Setup(tr, true)

	if tr.cfg.InsecureSkipVerify {
		t.Error("trust-all must be unreachable in a production build")
	}
	if tr.cfg.RootCAs == nil {
		t.Error("expected pinned root CA fallback")
	}
	if got := c.Info(tr); !got.Verified {
		t.Error("info should report verified validation")
	}
}

func TestSetupDevBuildTrustAll(t *testing.T) {
	tr := &recordingTransport{}
	c := NewConfigurator(ModeDevelopment, zap.NewNop())

	c.Setup(tr, true)

	if !tr.cfg.InsecureSkipVerify {
		t.Error("development build with dev mode requested should trust all")
	}
	if got := c.Info(tr); got.Verified {
		t.Error("info must flag trust-all as unverified")
	}
}

func TestSetupDevBuildWithoutRequestStaysPinned(t *testing.T) {
	tr := &recordingTransport{}
	c := NewConfigurator(ModeDevelopment, zap.NewNop())

	c.Setup(tr, false)

	if tr.cfg.InsecureSkipVerify {
		t.Error("dev build without an explicit request must stay pinned")
	}
	if tr.cfg.RootCAs == nil {
		t.Error("expected pinned root CA")
	}
}

func TestVerifyBeforeSetup(t *testing.T) {
	tr := &recordingTransport{connectOK: true}
	c := NewConfigurator(ModeProduction, zap.NewNop())

	if c.Verify(tr, "collector.example.com") {
		t.Error("verify before setup must fail")
	}
	if tr.connectCalls != 0 {
		t.Errorf("verify before setup must not touch the network, got %d connects", tr.connectCalls)
	}
	if tr.closeCalls != 0 {
		t.Errorf("verify before setup must have no side effects, got %d closes", tr.closeCalls)
	}
}

func TestVerifyClosesOnSuccess(t *testing.T) {
	tr := &recordingTransport{connectOK: true}
	c := NewConfigurator(ModeProduction, zap.NewNop())
	c.Setup(tr, false)

	if !c.Verify(tr, "collector.example.com") {
		t.Error("expected verify to succeed")
	}
	if tr.connectCalls != 1 {
		t.Errorf("expected 1 connect, got %d", tr.connectCalls)
	}
	if tr.closeCalls != 1 {
		t.Errorf("probe connection must be closed after success, got %d closes", tr.closeCalls)
	}
}

func TestVerifyClosesOnFailure(t *testing.T) {
	tr := &recordingTransport{connectOK: false}
	c := NewConfigurator(ModeProduction, zap.NewNop())
	c.Setup(tr, false)

	if c.Verify(tr, "collector.example.com") {
		t.Error("expected verify to fail")
	}
	if tr.closeCalls != 1 {
		t.Errorf("probe connection must be closed even on failure, got %d closes", tr.closeCalls)
	}
}

func TestInfoReportsConnectionState(t *testing.T) {
	tr := &recordingTransport{connected: true}
	c := NewConfigurator(ModeProduction, zap.NewNop())
	c.Setup(tr, false)

	info := c.Info(tr)
	if !info.Connected {
		t.Error("expected connected=true")
	}
	// Cipher/protocol are best-effort placeholders; only check presence.
	if info.Cipher == "" || info.Protocol == "" {
		t.Error("expected placeholder cipher/protocol fields to be populated")
	}
}

func TestPinnedRootsParses(t *testing.T) {
	if pinnedRoots() == nil {
		t.Fatal("pinned root pool is nil")
	}
}
