//go:build !linux

package feed

// pin is a no-op where thread affinity is not exposed.
func pin(int) {}
