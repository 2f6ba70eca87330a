// Package duration implements the HH:MM:SS arithmetic used for estimated
// and worked hours. Hours are unbounded; minutes and seconds carry at 60.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration is a length of worked time in whole seconds, non-negative.
type Duration int64

// Zero is the additive identity, "00:00:00".
const Zero Duration = 0

// DayPolicy converts "Nd" literals into hours. The system carries two
// conventions: task estimates count a business workday, attendance and
// report durations count a calendar day.
type DayPolicy struct {
	HoursPerDay int64
}

var (
	Workday     = DayPolicy{HoursPerDay: 8}
	CalendarDay = DayPolicy{HoursPerDay: 24}
)

// Parse reads an HH:MM:SS literal. Hours may exceed two digits; minutes and
// seconds must be below 60.
func Parse(s string) (Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration %q: want HH:MM:SS", s)
	}

	var units [3]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q: want HH:MM:SS", s)
		}
		units[i] = n
	}
	if units[1] > 59 || units[2] > 59 {
		return 0, fmt.Errorf("invalid duration %q: minutes and seconds must be below 60", s)
	}

	return Duration(units[0]*3600 + units[1]*60 + units[2]), nil
}

// FromTime converts an elapsed wall-clock interval, truncating sub-second
// precision. Negative intervals clamp to zero.
func FromTime(d time.Duration) Duration {
	if d < 0 {
		return Zero
	}
	return Duration(int64(d.Seconds()))
}

func (d Duration) String() string {
	s := int64(d)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// Add sums two durations with carry.
func (d Duration) Add(other Duration) Duration {
	return d + other
}

// SubFloor subtracts other from d, floored at zero. Used for remaining
// hours, which never go negative even when worked exceeds the estimate.
func (d Duration) SubFloor(other Duration) Duration {
	if other >= d {
		return Zero
	}
	return d - other
}

// Percentage returns round(part/whole*100) capped at 100. A zero whole
// yields 0 rather than dividing.
func Percentage(part, whole Duration) int {
	if whole <= 0 {
		return 0
	}
	pct := int(math.Round(float64(part) / float64(whole) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// ParseHuman reads literals like "1d 2h 30m 30s", converting days according
// to the given policy. Bare HH:MM:SS literals are accepted unchanged.
func ParseHuman(s string, policy DayPolicy) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if strings.Contains(s, ":") {
		return Parse(s)
	}

	var total Duration
	for _, field := range strings.Fields(s) {
		unit := field[len(field)-1]
		n, err := strconv.ParseInt(field[:len(field)-1], 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration field %q", field)
		}
		switch unit {
		case 'd':
			total += Duration(n * policy.HoursPerDay * 3600)
		case 'h':
			total += Duration(n * 3600)
		case 'm':
			total += Duration(n * 60)
		case 's':
			total += Duration(n)
		default:
			return 0, fmt.Errorf("invalid duration field %q", field)
		}
	}
	return total, nil
}
