// Package timeparse parses command-line timestamps, steps and directions.
package timeparse

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-faster/errors"
	"github.com/prometheus/common/model"

	"github.com/go-faster/chronokit/chronoiter"
)

// ParseTimestamp parses timestamp.
//
// Accepted forms are unix seconds (up to 10 digits), unix nanoseconds,
// fractional unix seconds (nanosecond precision), RFC3339 and given layout.
// Layout is interpreted in loc. Layout consisting only of letters and
// digits, like 20060102, is tried before numeric forms.
func ParseTimestamp(value, layout string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	if layout != "" && !hasSeparators(layout) {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	if ts, ok := parseUnixFraction(value); ok {
		return ts.In(loc), nil
	}
	if nanos, err := strconv.ParseInt(value, 10, 64); err == nil {
		if len(strings.TrimPrefix(value, "-")) <= 10 {
			return time.Unix(nanos, 0).In(loc), nil
		}
		return time.Unix(0, nanos).In(loc), nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	if layout != "" {
		ts, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "parse %q", value)
		}
		return ts, nil
	}
	return time.Time{}, errors.Errorf("unexpected timestamp %q", value)
}

func hasSeparators(layout string) bool {
	return strings.IndexFunc(layout, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) >= 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseUnixFraction parses "<seconds>.<fraction>" without going through
// float64, digits past nanoseconds are truncated.
func parseUnixFraction(value string) (time.Time, bool) {
	secs, frac, ok := strings.Cut(value, ".")
	if !ok {
		return time.Time{}, false
	}
	secs, neg := strings.CutPrefix(secs, "-")
	if !isDigits(secs) || !isDigits(frac) {
		return time.Time{}, false
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	frac += strings.Repeat("0", 9-len(frac))

	sec, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	nsec, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	if neg {
		sec, nsec = -sec, -nsec
	}
	return time.Unix(sec, nsec), true
}

// ParseStep parses signed step duration.
//
// Step is a Prometheus duration (1d, 1w), Go duration (1h30m) or
// float seconds, optionally prefixed with a single minus sign.
func ParseStep(value string) (time.Duration, error) {
	orig := value
	value, neg := strings.CutPrefix(strings.TrimSpace(value), "-")
	if value == "" || strings.HasPrefix(value, "-") || strings.HasPrefix(value, "+") {
		return 0, errors.Errorf("invalid step %q", orig)
	}

	d, err := parseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parse step %q", orig)
	}
	if neg {
		d = -d
	}
	return d, nil
}

func parseDuration(value string) (time.Duration, error) {
	if !strings.ContainsAny(value, "smhdwy") {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			d := f * float64(time.Second)
			if math.IsNaN(d) || math.IsInf(d, 0) || math.Abs(d) >= math.MaxInt64 {
				return 0, errors.Errorf("step %q out of range", value)
			}
			return time.Duration(d), nil
		}
	}
	md, err := model.ParseDuration(value)
	if err == nil {
		return time.Duration(md), nil
	}
	err1 := err

	// Go durations, like 1h30m or 1.5h.
	d, err := time.ParseDuration(value)
	if err == nil {
		return d, nil
	}
	return 0, err1
}

// DefaultStep returns step that splits given interval into at most 250
// parts, but not less than one second.
func DefaultStep(start, end time.Time) time.Duration {
	seconds := math.Max(
		math.Floor(end.Sub(start).Seconds()/250),
		1,
	)
	return time.Duration(seconds) * time.Second
}

// DirectionMap maps accepted direction names to directions.
var DirectionMap = func() map[string]chronoiter.Direction {
	m := map[string]chronoiter.Direction{}
	for _, s := range []struct {
		dir    chronoiter.Direction
		values []string
	}{
		{
			chronoiter.DirectionBackward,
			[]string{"desc", "descending"},
		},
		{
			chronoiter.DirectionForward,
			[]string{"asc", "ascending"},
		},
	} {
		m[s.dir.String()] = s.dir
		for _, v := range s.values {
			m[v] = s.dir
		}
	}
	return m
}()

// ParseDirection parses traversal direction.
func ParseDirection(s string) (chronoiter.Direction, error) {
	orig := s
	s = strings.ToLower(s)

	d, ok := DirectionMap[s]
	if !ok {
		return "", errors.Errorf("unexpected direction %q", orig)
	}
	return d, nil
}

// OrientStep applies direction to the step.
//
// Positive step is negated for backward direction. Negative step conflicts
// with explicit forward direction. Empty direction keeps step as is.
func OrientStep(step time.Duration, dir chronoiter.Direction) (time.Duration, error) {
	switch dir {
	case "":
		return step, nil
	case chronoiter.DirectionForward:
		if step < 0 {
			return 0, errors.Errorf("negative step %s conflicts with %s direction", step, dir)
		}
		return step, nil
	case chronoiter.DirectionBackward:
		if step > 0 {
			return -step, nil
		}
		return step, nil
	default:
		return 0, errors.Errorf("unexpected direction %q", dir)
	}
}
