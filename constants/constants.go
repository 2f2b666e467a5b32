// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Global histogram, store and feed tunables
//
// Purpose:
//   - Defines the counter word ladder used by adaptive storage promotion.
//   - Pins axis geometry constants (polar period, category delimiter).
//   - Names the SQLite schema objects used by the snapshot store.
//   - Sets the spin and back-off budget of the concurrent fill feed.
//
// Notes:
//   - Word widths are byte counts and double on every promotion step.
//   - Flow slot ordering (overflow before underflow) is part of the storage
//     layout and must never change once snapshots exist on disk.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

import (
	"math"
	"time"
)

// ───────────────────────────── Counter Words ──────────────────────────────

const (
	// MinDepth is the word width in bytes every fresh storage starts at.
	MinDepth = 1

	// MaxDepth is the widest supported word width in bytes (uint64).
	// Increments beyond its maximum fail instead of wrapping.
	MaxDepth = 8

	// MaxU8, MaxU16 and MaxU32 are the saturation points that trigger promotion.
	MaxU8  = math.MaxUint8
	MaxU16 = math.MaxUint16
	MaxU32 = math.MaxUint32
)

// ───────────────────────────── Axis Geometry ──────────────────────────────

const (
	// PolarPeriod is the implicit period of every polar axis.
	PolarPeriod = 2 * math.Pi

	// CategoryDelimiter splits a single combined category argument.
	CategoryDelimiter = ";"

	// Underflow and Overflow are the sentinels returned by numeric Locate calls.
	// Overflow is relative: Locate returns Bins() for it, so only Underflow is fixed.
	Underflow = -1

	// FlowSlots is the number of extra storage slots an axis with uoflow carries.
	FlowSlots = 2
)

// ─────────────────────────── Category Index ───────────────────────────────

const (
	// CategoryIndexMinScan is the category count below which Locate scans
	// linearly instead of consulting the Robin Hood fingerprint table.
	CategoryIndexMinScan = 8
)

// ──────────────────────────── Snapshot Store ──────────────────────────────

const (
	// StoreTable is the SQLite table holding histogram snapshots.
	StoreTable = "histograms"

	// StorePragmas are appended to every DSN opened by the store.
	// WAL keeps readers unblocked while a snapshot is being written.
	StorePragmas = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	// StoreSchemaVersion is written to PRAGMA user_version after migration.
	StoreSchemaVersion = 1
)

// ───────────────────────────── Fill Feed ──────────────────────────────────

const (
	// FeedCapacity is the default ring size of a fill feed (power of two).
	FeedCapacity = 1 << 12

	// FeedHotWindow is how long the consumer keeps tight-spinning after the
	// last delivered row before it starts backing off.
	FeedHotWindow = 2 * time.Millisecond

	// FeedSpinBudget is the number of yielding polls between idle sleeps
	// once the hot window has passed.
	FeedSpinBudget = 256

	// FeedIdleSleep is the consumer nap after a full spin budget of misses.
	FeedIdleSleep = 50 * time.Microsecond
)
