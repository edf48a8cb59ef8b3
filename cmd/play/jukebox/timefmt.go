package jukebox

import (
	"fmt"
	"math"
	"time"
)

// Format renders seconds as m:ss. NaN, infinite and negative input render
// as 0:00, which is what the display shows while the duration is unknown.
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func FormatDuration(d time.Duration) string {
	return Format(d.Seconds())
}
