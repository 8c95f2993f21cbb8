//go:build !devbuild

package secure

// CompiledMode is the build mode this binary was compiled with. Development
// mode requires the devbuild build tag; without it every binary is a
// production build and trust-all is unreachable.
func CompiledMode() Mode {
	return ModeProduction
}
