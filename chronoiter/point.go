package chronoiter

import (
	"iter"
	"time"

	"github.com/go-faster/chronokit/internal/iterators"
)

var _ iterators.Iterator[time.Time] = (*PointIter)(nil)

// PointIter yields timestamps of the interval [lo, hi] spaced by step.
//
// The last step is clamped to the far endpoint if it would overshoot it.
type PointIter struct {
	lo   time.Time
	hi   time.Time
	step time.Duration
	dir  Direction
	cur  time.Time
}

// NewPointIter creates new [PointIter].
//
// Returns [ErrZeroStep] if step is zero and [*InvalidRangeError] if lo is
// after hi. Endpoints are checked irrespective of step sign.
func NewPointIter(lo, hi time.Time, step time.Duration) (*PointIter, error) {
	if err := validate(lo, hi, step); err != nil {
		return nil, err
	}
	i := &PointIter{
		lo:   lo,
		hi:   hi,
		step: step,
		dir:  directionOf(step),
	}
	if i.dir == DirectionForward {
		i.cur = lo
	} else {
		i.cur = hi
	}
	return i, nil
}

// Points collects all timestamps of the interval.
func Points(lo, hi time.Time, step time.Duration) ([]time.Time, error) {
	i, err := NewPointIter(lo, hi, step)
	if err != nil {
		return nil, err
	}
	return iterators.Collect[time.Time](i, -1)
}

// Direction returns traversal direction.
func (i *PointIter) Direction() Direction {
	return i.dir
}

// Step returns step duration.
func (i *PointIter) Step() time.Duration {
	return i.step
}

// Bounds returns interval endpoints.
func (i *PointIter) Bounds() (lo, hi time.Time) {
	return i.lo, i.hi
}

// Next returns true, if there is element and fills t.
func (i *PointIter) Next(t *time.Time) bool {
	switch i.dir {
	case DirectionForward:
		return i.nextForward(t)
	case DirectionBackward:
		return i.nextBackward(t)
	default:
		// Zero value.
		return false
	}
}

func (i *PointIter) nextForward(t *time.Time) bool {
	if i.cur.After(i.hi) {
		return false
	}
	*t = i.cur

	next := i.cur.Add(i.step)
	if i.cur.Before(i.hi) && next.After(i.hi) {
		next = i.hi
	}
	i.cur = next
	return true
}

func (i *PointIter) nextBackward(t *time.Time) bool {
	if i.cur.Before(i.lo) {
		return false
	}
	*t = i.cur

	next := i.cur.Add(i.step)
	if i.cur.After(i.lo) && next.Before(i.lo) {
		next = i.lo
	}
	i.cur = next
	return true
}

// Err always returns nil: advancing is infallible.
func (i *PointIter) Err() error { return nil }

// Close always returns nil.
func (i *PointIter) Close() error { return nil }

// All returns a sequence of remaining timestamps.
//
// The sequence consumes the iterator.
func (i *PointIter) All() iter.Seq[time.Time] {
	return iterators.Seq[time.Time](i)
}
