package timeline

import (
	"fmt"
	"math"
)

// FormatTime renders ms as m:ss.d
func FormatTime(ms float64) string {
	if ms < 0 {
		ms = 0
	}
	totalSec := int(math.Floor(ms / 1000))
	min := totalSec / 60
	sec := totalSec % 60
	dec := int(math.Floor(math.Mod(ms, 1000) / 100))
	return fmt.Sprintf("%d:%02d.%d", min, sec, dec)
}
