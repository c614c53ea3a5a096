// Package format turns byte counts and durations into the short strings
// shown on progress lines.
package format

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rescale/pkgview/internal/constants"
)

// sizeUnits are binary units in ascending order, paired with their labels.
var sizeUnits = []struct {
	label string
	size  float64
}{
	{"B", humanize.Byte},
	{"KiB", humanize.KiByte},
	{"MiB", humanize.MiByte},
	{"GiB", humanize.GiByte},
	{"TiB", humanize.TiByte},
	{"PiB", humanize.PiByte},
	{"EiB", humanize.EiByte},
}

// HumanizeSize scales bytes to the smallest unit in which the value is at
// most 2048 and returns the scaled value with the unit label.
func HumanizeSize(bytes int64) (float64, string) {
	val := float64(bytes)
	i := 0
	for ; i < len(sizeUnits)-1; i++ {
		if val <= constants.HumanizeThreshold && val >= -constants.HumanizeThreshold {
			break
		}
		val /= 1024.0
	}
	return val, sizeUnits[i].label
}

// Bytes is a compact human string for summaries and logs ("1.5 MiB").
func Bytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

// Rate formats bytes per second for summaries ("12 MiB/s").
func Rate(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return "0 B/s"
	}
	return humanize.IBytes(uint64(bytesPerSecond)) + "/s"
}

// Duration rounds d to whole seconds for display.
func Duration(d time.Duration) string {
	return d.Round(time.Second).String()
}
