// Package requirex provides additional testing helpers for time sequences.
package requirex

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/require"
)

// Unique checks that given slice is unique.
func Unique[S ~[]E, E comparable](t require.TestingT, s S) {
	m := make(map[E]struct{}, len(s))
	for _, v := range s {
		if _, ok := m[v]; ok {
			require.Fail(t, fmt.Sprintf("slice %#v is not unique (duplicated entry: %#v)", s, v))
			return
		}
		m[v] = struct{}{}
	}
}

// Increasing checks that timestamps are strictly increasing.
func Increasing(t require.TestingT, s []time.Time) {
	for i := 1; i < len(s); i++ {
		if !s[i].After(s[i-1]) {
			require.Fail(t, fmt.Sprintf("timestamp %d (%s) is not after %s", i, s[i], s[i-1]))
			return
		}
	}
}

// Decreasing checks that timestamps are strictly decreasing.
func Decreasing(t require.TestingT, s []time.Time) {
	for i := 1; i < len(s); i++ {
		if !s[i].Before(s[i-1]) {
			require.Fail(t, fmt.Sprintf("timestamp %d (%s) is not before %s", i, s[i], s[i-1]))
			return
		}
	}
}

// Within checks that every timestamp is inside [lo, hi].
func Within(t require.TestingT, s []time.Time, lo, hi time.Time) {
	for i, v := range s {
		if v.Before(lo) || v.After(hi) {
			require.Fail(t, fmt.Sprintf("timestamp %d (%s) is out of [%s, %s]", i, v, lo, hi))
			return
		}
	}
}
