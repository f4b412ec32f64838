package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// ErrInvalidThreshold is returned for values that are neither a number of
// milliseconds nor a recognised duration.
var ErrInvalidThreshold = errors.New("invalid threshold")

// Threshold is an optional duration: either Disabled or Enabled(d).
type Threshold struct {
	d       time.Duration
	enabled bool
}

// Disabled returns a threshold that never applies.
func Disabled() Threshold {
	return Threshold{}
}

// Enabled returns a threshold of d.
func Enabled(d time.Duration) Threshold {
	return Threshold{d: d, enabled: true}
}

// Get returns the duration and whether the threshold is enabled.
func (t Threshold) Get() (time.Duration, bool) {
	return t.d, t.enabled
}

// IsEnabled reports whether the threshold applies.
func (t Threshold) IsEnabled() bool {
	return t.enabled
}

// String renders the threshold in long form, e.g. "7 days".
func (t Threshold) String() string {
	if !t.enabled {
		return "disabled"
	}
	return HumanDuration(t.d)
}

var durationPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-z]+)$`)

var unitSizes = map[string]time.Duration{
	"ms": time.Millisecond, "msec": time.Millisecond, "msecs": time.Millisecond,
	"millisecond": time.Millisecond, "milliseconds": time.Millisecond,
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
}

// ParseThreshold parses a configured exclusion window.
//
// Empty input is Disabled. A bare number is milliseconds. Otherwise the
// value is a single "<n> <unit>" pair ("90m", "7 days", "2w") or anything
// time.ParseDuration accepts ("1h30m").
func ParseThreshold(raw string) (Threshold, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || s == "false" || s == "off" || s == "disabled" {
		return Disabled(), nil
	}

	if ms, err := cast.ToFloat64E(s); err == nil {
		return fromFloat(ms, time.Millisecond, raw)
	}

	if m := durationPattern.FindStringSubmatch(s); m != nil {
		unit, ok := unitSizes[m[2]]
		if !ok {
			return Disabled(), fmt.Errorf("%w: unknown unit %q in %q", ErrInvalidThreshold, m[2], raw)
		}
		n, err := cast.ToFloat64E(m[1])
		if err != nil {
			return Disabled(), fmt.Errorf("%w: %q", ErrInvalidThreshold, raw)
		}
		return fromFloat(n, unit, raw)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Disabled(), fmt.Errorf("%w: %q", ErrInvalidThreshold, raw)
	}
	if d < 0 {
		return Disabled(), fmt.Errorf("%w: negative duration %q", ErrInvalidThreshold, raw)
	}
	return Enabled(d), nil
}

func fromFloat(n float64, unit time.Duration, raw string) (Threshold, error) {
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Disabled(), fmt.Errorf("%w: %q", ErrInvalidThreshold, raw)
	}
	return Enabled(time.Duration(math.Round(n * float64(unit)))), nil
}

// HumanDuration renders d using its largest whole unit, rounding like
// "36 hours" -> "2 days".
func HumanDuration(d time.Duration) string {
	abs := d
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= day:
		return plural(d, abs, day, "day")
	case abs >= time.Hour:
		return plural(d, abs, time.Hour, "hour")
	case abs >= time.Minute:
		return plural(d, abs, time.Minute, "minute")
	case abs >= time.Second:
		return plural(d, abs, time.Second, "second")
	default:
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
}

func plural(d, abs, unit time.Duration, name string) string {
	n := math.Round(float64(d) / float64(unit))
	if float64(abs) >= 1.5*float64(unit) {
		return fmt.Sprintf("%d %ss", int64(n), name)
	}
	return fmt.Sprintf("%d %s", int64(n), name)
}
