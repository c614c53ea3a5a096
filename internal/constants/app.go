package constants

import (
	"time"
)

// Progress refresh cadence
const (
	// UpdateInterval - minimum wall time between two redraws of the same
	// progress stream (200ms). Ticks arriving faster are dropped unless an
	// override condition applies (new item, first 100%).
	UpdateInterval = 200 * time.Millisecond

	// UpdateIntervalMs - UpdateInterval in milliseconds, the unit every
	// throttle and rate computation works in.
	UpdateIntervalMs = int64(UpdateInterval / time.Millisecond)
)

// Line layout
const (
	// InfoLenMinimum - the text area left of the bar never shrinks below 50 columns,
	// even on terminals narrower than that.
	InfoLenMinimum = 50

	// InfoLenNumerator / InfoLenDenominator - the text area takes 6/10 of the terminal.
	InfoLenNumerator   = 6
	InfoLenDenominator = 10

	// BarReservedColumns - 1 space + "[" + "]" + 5 for the percent field + 1 blank.
	// The trailing blank keeps carriage return working on Windows consoles.
	BarReservedColumns = 9

	// PercentFieldColumns - 1 space + 3 digits + "%".
	PercentFieldColumns = 5

	// Ellipsis marks a truncated label. EllipsisColumns is its display width.
	Ellipsis        = "..."
	EllipsisColumns = 3

	// DownloadFixedColumns - columns of a download line that are not the filename:
	// 1 space + 1 space + 6 size + 1 space + 3 label + 2 spaces + 4 rate +
	// 1 label + 2 "/s" + 1 space + 8 ETA.
	DownloadFixedColumns = 30

	// ETAHourColumns - the "hh:" part of the ETA, returned to the filename
	// when the hour field is not printed.
	ETAHourColumns = 3

	// ETAMaxHours - at or beyond this many hours the ETA prints as "--:--".
	ETAMaxHours = 100

	// FallbackColumns - assumed width of a terminal whose size cannot be queried.
	FallbackColumns = 80
)

// Human readable sizes
const (
	// HumanizeThreshold - a value is scaled to the next unit only above 2048.
	HumanizeThreshold = 2048.0
)

// Event bus buffer sizes
const (
	// EventBusDefaultBuffer - default buffer size for event channels (1000)
	EventBusDefaultBuffer = 1000

	// EventBusMaxBuffer - maximum buffer size for high-throughput producers (5000)
	EventBusMaxBuffer = 5000
)

// Parallel downloads
const (
	// MaxParallelDownloads - upper bound accepted for the ParallelDownloads option.
	MaxParallelDownloads = 64

	// ParallelRefreshRate - redraw period of the multi-bar container.
	ParallelRefreshRate = UpdateInterval

	// ParallelBarWidth - maximum width handed to the multi-bar container.
	ParallelBarWidth = 100
)

// Logging
const (
	// LogTimeFormat - timestamp layout for console log lines.
	LogTimeFormat = "15:04:05"

	// LogFileMaxSizeMB / LogFileMaxBackups / LogFileMaxAgeDays - rotation policy of
	// the optional log file.
	LogFileMaxSizeMB  = 10
	LogFileMaxBackups = 5
	LogFileMaxAgeDays = 30
)

// Configuration
const (
	// DefaultConfigPath - location of the pacman-style configuration file.
	DefaultConfigPath = "/etc/pacman.conf"

	// OptionsSection - INI section holding the rendering options.
	OptionsSection = "options"
)
