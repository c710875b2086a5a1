// Package chronoiter provides lazy sequences over a closed interval of
// wall-clock timestamps.
//
// [PointIter] walks [lo, hi] in fixed steps and [RangeIter] pairs consecutive
// points into ranges. The sign of the step selects traversal order: positive
// step walks from lo to hi, negative step walks from hi to lo. The far
// endpoint is always yielded, even if step does not divide the interval.
//
// Timestamp arithmetic is delegated to [time.Time.Add], so overflow near the
// representable range is not detected.
package chronoiter

import "time"

// Direction describes traversal order.
type Direction string

const (
	// DirectionForward walks from lo to hi.
	DirectionForward Direction = "forward"
	// DirectionBackward walks from hi to lo.
	DirectionBackward Direction = "backward"
)

// String implements [fmt.Stringer].
func (d Direction) String() string {
	return string(d)
}

// directionOf returns traversal direction selected by step sign.
func directionOf(step time.Duration) Direction {
	if step < 0 {
		return DirectionBackward
	}
	return DirectionForward
}

func validate(lo, hi time.Time, step time.Duration) error {
	if step == 0 {
		return ErrZeroStep
	}
	if lo.After(hi) {
		return &InvalidRangeError{Lo: lo, Hi: hi}
	}
	return nil
}
