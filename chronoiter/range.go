package chronoiter

import (
	"iter"
	"time"

	"github.com/go-faster/chronokit/internal/iterators"
)

// Range is a pair of consecutive points, Start is never after End.
type Range struct {
	Start time.Time
	End   time.Time
}

// Duration returns length of the range.
func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	return "[" + r.Start.Format(time.DateTime) + ", " + r.End.Format(time.DateTime) + "]"
}

var _ iterators.Iterator[Range] = (*RangeIter)(nil)

// RangeIter yields ranges between consecutive points of [PointIter].
//
// Ranges are emitted in traversal order, but each range is oriented so
// that Start <= End.
type RangeIter struct {
	points  iterators.Iterator[time.Time]
	dir     Direction
	prev    time.Time
	hasPrev bool
}

// NewRangeIter creates new [RangeIter].
//
// Errors are the same as for [NewPointIter].
func NewRangeIter(lo, hi time.Time, step time.Duration) (*RangeIter, error) {
	points, err := NewPointIter(lo, hi, step)
	if err != nil {
		return nil, err
	}
	return newRangeIter(points, points.Direction()), nil
}

func newRangeIter(points iterators.Iterator[time.Time], dir Direction) *RangeIter {
	return &RangeIter{
		points: points,
		dir:    dir,
	}
}

// Ranges collects all ranges of the interval.
func Ranges(lo, hi time.Time, step time.Duration) ([]Range, error) {
	i, err := NewRangeIter(lo, hi, step)
	if err != nil {
		return nil, err
	}
	return iterators.Collect[Range](i, -1)
}

// Direction returns traversal direction.
func (i *RangeIter) Direction() Direction {
	return i.dir
}

// Next returns true, if there is element and fills r.
func (i *RangeIter) Next(r *Range) bool {
	if !i.hasPrev {
		if !i.points.Next(&i.prev) {
			return false
		}
		i.hasPrev = true
	}

	var curr time.Time
	if !i.points.Next(&curr) {
		return false
	}
	prev := i.prev
	i.prev = curr

	if i.dir == DirectionBackward {
		*r = Range{Start: curr, End: prev}
	} else {
		*r = Range{Start: prev, End: curr}
	}
	return true
}

// Err returns an error caused during iteration, if any.
func (i *RangeIter) Err() error {
	return i.points.Err()
}

// Close closes underlying point iterator.
func (i *RangeIter) Close() error {
	return i.points.Close()
}

// All returns a sequence of remaining ranges as (start, end) pairs.
//
// The sequence consumes the iterator.
func (i *RangeIter) All() iter.Seq2[time.Time, time.Time] {
	return func(yield func(time.Time, time.Time) bool) {
		var r Range
		for i.Next(&r) {
			if !yield(r.Start, r.End) {
				return
			}
		}
	}
}
