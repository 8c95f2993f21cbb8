//go:build devbuild

package secure

// CompiledMode is the build mode this binary was compiled with. The devbuild
// tag marks a development build in which trust-all TLS may be requested.
func CompiledMode() Mode {
	return ModeDevelopment
}
