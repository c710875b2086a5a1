package chronoiter

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
)

var (
	// ErrZeroStep is returned when step duration is zero.
	ErrZeroStep = errors.New("Step duration cannot be zero")
	// ErrInvalidRange matches any [*InvalidRangeError] via [errors.Is].
	ErrInvalidRange = errors.New("invalid range")
)

// InvalidRangeError is returned when start of the interval is after its end.
type InvalidRangeError struct {
	Lo time.Time
	Hi time.Time
}

// Error implements error.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("Invalid range: start %s must be before end %s",
		e.Lo.Format(time.DateTime),
		e.Hi.Format(time.DateTime),
	)
}

// Is reports whether target is [ErrInvalidRange].
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}
