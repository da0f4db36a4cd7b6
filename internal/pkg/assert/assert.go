//go:build !release

// Package assert checks invariants in development builds.
// Build with the release tag to compile every check away.
package assert

func panicMessage(msg []string) {
	if len(msg) == 0 {
		panic("assert failed")
	}

	panic(msg[0])
}

func True(v bool, msg ...string) {
	if !v {
		panicMessage(msg)
	}
}
