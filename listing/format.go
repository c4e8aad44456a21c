package listing

import (
	"fmt"
	"strconv"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// FormatSize renders a byte count with binary thresholds: one decimal for
// GB and MB, whole kilobytes, raw bytes below 1 KiB. Rounding is half-up.
func FormatSize(n int64) string {
	switch {
	case n >= gib:
		return tenths(n, gib) + " GB"
	case n >= mib:
		return tenths(n, mib) + " MB"
	case n >= kib:
		return strconv.FormatInt(roundDiv(n, kib), 10) + " kB"
	default:
		return strconv.FormatInt(n, 10) + " B"
	}
}

// tenths formats n/unit with one decimal place.
func tenths(n, unit int64) string {
	t := (n/unit)*10 + roundDiv((n%unit)*10, unit)
	return fmt.Sprintf("%d.%d", t/10, t%10)
}

// roundDiv divides non-negative n by d rounding half away from zero.
func roundDiv(n, d int64) int64 {
	q, r := n/d, n%d
	if 2*r >= d {
		q++
	}
	return q
}

// SizeText is the size column for the entry; directories have none.
func (e Entry) SizeText() string {
	if e.Kind == Directory {
		return ""
	}
	return FormatSize(e.Size)
}

// Label is the three-column kind marker shown before the name.
func (e Entry) Label() string {
	if e.Kind == Directory {
		return "dir"
	}
	return "   "
}
