package transport

import (
	"fmt"
	"strings"
)

const maxHostLength = 253

// ValidateCollectorAddr checks that a collector address from configuration
// is plausible before any dial is attempted:
//   - hostname non-empty, max 253 characters
//   - no scheme, path, or embedded credentials in the hostname
//   - port in 1..65535
//   - ingest path absolute
func ValidateCollectorAddr(host string, port int, path string) error {
	if host == "" {
		return fmt.Errorf("collector host is empty")
	}
	if len(host) > maxHostLength {
		return fmt.Errorf("collector host too long (%d chars, max %d)", len(host), maxHostLength)
	}
	if strings.Contains(host, "://") {
		return fmt.Errorf("collector host %q must not include a scheme", host)
	}
	if strings.ContainsAny(host, "/@ ") {
		return fmt.Errorf("collector host %q must be a bare hostname", host)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("collector port %d out of range", port)
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("collector path %q must be absolute", path)
	}
	return nil
}
