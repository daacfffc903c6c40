package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatDuration renders seconds as "M:SS". Minutes keep growing past an
// hour; negative and NaN inputs render as "0:00".
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParseDuration parses a nominal "M:SS" catalog duration.
func ParseDuration(s string) (time.Duration, error) {
	m, sec, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(sec) != 2 {
		return 0, fmt.Errorf("invalid duration %q: want M:SS", s)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("invalid duration %q: bad minutes", s)
	}
	seconds, err := strconv.Atoi(sec)
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid duration %q: bad seconds", s)
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}
