// Package secure gates how the uplink transport trusts the collector's TLS
// certificate. A configurator is either unconfigured or configured; Setup
// performs the single transition and decides between pinned-CA validation
// and trust-all.
//
// Trust-all is only reachable when the process was built in development mode
// AND the caller asks for it. A production build ends up with the pinned CA
// no matter what the caller requested — that fallback is a hard guarantee,
// not a default.
package secure

import (
	"crypto/tls"
	"time"

	"go.uber.org/zap"
)

// ConnectTimeout bounds connect and read operations on the configured
// transport.
const ConnectTimeout = 30 * time.Second

// verifyPort is the collector port probed by Verify.
const verifyPort = 443

// Mode is the process build mode. It is fixed at construction and never
// changes for the life of the configurator.
type Mode int

const (
	ModeProduction Mode = iota
	ModeDevelopment
)

func (m Mode) String() string {
	if m == ModeDevelopment {
		return "development"
	}
	return "production"
}

// TLSConfigurable is implemented by transports whose TLS settings the
// configurator installs. A zero timeout means the transport keeps its
// default.
type TLSConfigurable interface {
	ConfigureTLS(cfg *tls.Config, timeout time.Duration)
}

// Prober is the minimal connect surface used by the one-shot Verify probe.
type Prober interface {
	Connect(host string, port int) bool
	Close()
}

// StatusReporter exposes connection status for Info.
type StatusReporter interface {
	IsConnected() bool
}

// ConnectionInfo describes the transport's connection, best-effort.
type ConnectionInfo struct {
	Connected bool   `json:"connected"`
	Cipher    string `json:"cipher"`
	Protocol  string `json:"protocol"`
	Verified  bool   `json:"verified"`
}

// Configurator installs trust settings on a transport exactly once.
type Configurator struct {
	mode   Mode
	logger *zap.Logger

	configured bool
	trustAll   bool
}

// NewConfigurator creates a configurator bound to the given build mode.
func NewConfigurator(mode Mode, logger *zap.Logger) *Configurator {
	return &Configurator{mode: mode, logger: logger}
}

// Setup transitions the configurator to its configured state and installs
// TLS settings on the transport.
//
// developmentMode only takes effect in a development build; in a production
// build the request is rejected loudly and the pinned CA is enforced.
func (c *Configurator) Setup(t TLSConfigurable, developmentMode bool) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if developmentMode && c.mode == ModeDevelopment {
		c.logger.Warn("DEVELOPMENT MODE: TLS certificate validation disabled")
		c.logger.Warn("this configuration must never reach production")
		cfg.InsecureSkipVerify = true
		c.trustAll = true
		t.ConfigureTLS(cfg, 0)
	} else {
		if developmentMode {
			c.logger.Error("development TLS requested but build mode is production; enforcing pinned CA")
		}
		cfg.RootCAs = pinnedRoots()
		t.ConfigureTLS(cfg, ConnectTimeout)
	}

	c.configured = true
	c.logger.Info("transport trust configured",
		zap.Stringer("buildMode", c.mode),
		zap.Bool("trustAll", c.trustAll),
	)
}

// Configured reports whether Setup has run.
func (c *Configurator) Configured() bool {
	return c.configured
}

// Verify performs a one-shot connect probe to host:443 and reports whether
// the handshake succeeded. The probe connection is always closed before
// returning, success or not. Before Setup it fails immediately with no
// network activity.
func (c *Configurator) Verify(t Prober, host string) bool {
	if !c.configured {
		c.logger.Error("verify called before setup")
		return false
	}

	defer t.Close()

	if !t.Connect(host, verifyPort) {
		c.logger.Error("verify probe failed",
			zap.String("host", host),
			zap.Int("port", verifyPort),
		)
		return false
	}

	c.logger.Info("verify probe succeeded", zap.String("host", host))
	return true
}

// Info returns a best-effort description of the connection. The transport
// abstraction does not expose the negotiated cipher suite, so the cipher and
// protocol fields are placeholders, not a verified report of actual TLS
// parameters.
func (c *Configurator) Info(t StatusReporter) ConnectionInfo {
	return ConnectionInfo{
		Connected: t.IsConnected(),
		Cipher:    "unavailable",
		Protocol:  "TLSv1.2+",
		Verified:  !c.trustAll,
	}
}
