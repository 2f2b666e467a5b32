//go:build linux

package feed

import (
	"golang.org/x/sys/unix"

	"ndhist/debug"
)

// pin binds the calling OS thread to one logical CPU. Failures (cgroup
// limits, offline CPUs) leave the thread unpinned.
func pin(core int) {
	var set unix.CPUSet
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		debug.DropError("FEED_PIN", err)
	}
}
