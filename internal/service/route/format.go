package route

import (
	"fmt"
	"math"
)

// FormatDistance renders meters under a kilometer as a rounded integer,
// anything longer in kilometers to one decimal place.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1f km", meters/1000.0)
}

// FormatDuration renders durations under an hour as rounded minutes,
// longer ones as hours plus remaining minutes.
func FormatDuration(seconds float64) string {
	minutes := int(math.Round(seconds / 60.0))
	if minutes < 1 {
		minutes = 1
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}
