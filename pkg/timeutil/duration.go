// Package timeutil parses the compact age windows used to narrow ticket
// listings, such as "1w" or "2d6h".
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

type unit struct {
	label   string
	aliases []string
	value   time.Duration
}

var (
	segment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	units   = []unit{
		{"w", []string{"w", "wk", "wks", "week", "weeks"}, 7 * day},
		{"d", []string{"d", "day", "days"}, day},
		{"h", []string{"h", "hr", "hrs", "hour", "hours"}, time.Hour},
		{"m", []string{"m", "min", "mins", "minute", "minutes"}, time.Minute},
	}
)

func lookup(label string) (time.Duration, bool) {
	for _, u := range units {
		for _, a := range u.aliases {
			if a == label {
				return u.value, true
			}
		}
	}
	return 0, false
}

// ParseWindow reads a window like "1w2d6h". An empty input is no window.
func ParseWindow(input string) (time.Duration, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		return 0, nil
	}

	var total time.Duration
	for len(remaining) > 0 {
		m := segment.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		base, ok := lookup(m[2])
		if !ok {
			return 0, fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * base
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, fmt.Errorf("window must be greater than zero")
	}
	return total, nil
}

// FormatWindow renders d with the largest units first, dropping seconds.
func FormatWindow(d time.Duration) string {
	var parts []string
	for _, u := range units {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		parts = append(parts, fmt.Sprintf("%d%s", n, u.label))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, "")
}

// Since is the start of a window ending at now, or the zero time when
// window is zero.
func Since(now time.Time, window time.Duration) time.Time {
	if window <= 0 {
		return time.Time{}
	}
	return now.Add(-window)
}

// Age is how long ago then was, as a window, e.g. "3d4h".
func Age(then, now time.Time) string {
	return FormatWindow(now.Sub(then).Truncate(time.Minute))
}
