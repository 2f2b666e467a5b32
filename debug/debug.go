// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — Cold-path diagnostic logging helper (zero-alloc sink)
//
// Purpose:
//   - Logs infrequent events without introducing heap pressure on fill paths.
//   - Used only in cold paths: store open/migrate, corrupt snapshots, saturation.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Output is unformatted "<prefix>: <message>" lines on stderr.
//
// ⚠️ Never invoke on the success path of Fill or Increment.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "ndhist/utils"

// DropError logs an error under a prefix.
// With a nil error only the prefix is printed, which doubles as a cheap trace tag.
//
//go:nosplit
//go:inline
//go:registerparams
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error() + "\n")
		return
	}
	utils.PrintWarning(prefix + "\n")
}

// DropMessage logs a tagged diagnostic line.
//
//go:nosplit
//go:inline
//go:registerparams
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message + "\n")
}
