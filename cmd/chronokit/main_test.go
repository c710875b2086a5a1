package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-faster/chronokit/chronoiter"
)

func run(t *testing.T, args ...string) (stdout, stderr string, _ error) {
	t.Helper()
	return runContext(t, context.Background(), args...)
}

func runContext(t *testing.T, ctx context.Context, args ...string) (stdout, stderr string, _ error) {
	t.Helper()
	t.Setenv("CHRONOKIT_LAYOUT", "")

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestIterate(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{
			[]string{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-03 12:00:00", "--step", "1d"},
			lines(
				"2023-01-01 00:00:00",
				"2023-01-02 00:00:00",
				"2023-01-03 00:00:00",
				"2023-01-03 12:00:00",
			),
		},
		{
			[]string{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-03 00:00:00", "--step", "-1d"},
			lines(
				"2023-01-03 00:00:00",
				"2023-01-02 00:00:00",
				"2023-01-01 00:00:00",
			),
		},
		{
			[]string{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-03 00:00:00", "--step", "1d", "-d", "desc"},
			lines(
				"2023-01-03 00:00:00",
				"2023-01-02 00:00:00",
				"2023-01-01 00:00:00",
			),
		},
		{
			[]string{"ranges", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 12:00:00", "--step", "9h"},
			lines(
				"2023-01-01 00:00:00 2023-01-01 09:00:00 9h0m0s",
				"2023-01-01 09:00:00 2023-01-01 12:00:00 3h0m0s",
			),
		},
		{
			[]string{"ranges", "-s", "1672531200", "-e", "1672704000", "--step", "1d", "-d", "desc"},
			lines(
				"2023-01-02 00:00:00 2023-01-03 00:00:00 24h0m0s",
				"2023-01-01 00:00:00 2023-01-02 00:00:00 24h0m0s",
			),
		},
		{
			[]string{"ranges", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 12:00:00", "--step", "9h", "-f", "json"},
			lines(
				`{"start":"2023-01-01T00:00:00Z","end":"2023-01-01T09:00:00Z","duration":"9h0m0s"}`,
				`{"start":"2023-01-01T09:00:00Z","end":"2023-01-01T12:00:00Z","duration":"3h0m0s"}`,
			),
		},
		{
			[]string{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 00:00:00", "--step", "1h", "-f", "json"},
			lines(`{"ts":"2023-01-01T00:00:00Z"}`),
		},
		{
			[]string{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-02 00:00:00", "--step", "1h", "--limit", "2"},
			lines(
				"2023-01-01 00:00:00",
				"2023-01-01 01:00:00",
			),
		},
		{
			[]string{"ranges", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 00:00:00", "--step", "1h"},
			"",
		},
	}
	for i, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			args := append(tt.args, "--color=false")
			stdout, _, err := run(t, args...)
			require.NoError(t, err)
			require.Equal(t, tt.expected, stdout)
		})
	}
}

func TestIterateErrors(t *testing.T) {
	for _, kind := range []string{"points", "ranges"} {
		_, _, err := run(t, kind, "-s", "2023-01-01 00:00:00", "-e", "2023-01-03 00:00:00", "--step", "0")
		require.ErrorIs(t, err, chronoiter.ErrZeroStep)

		_, _, err = run(t, kind, "-s", "2023-01-03 00:00:00", "-e", "2023-01-01 00:00:00", "--step", "1h")
		require.ErrorIs(t, err, chronoiter.ErrInvalidRange)
	}

	for i, args := range [][]string{
		{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-02 00:00:00", "--step", "-1h", "-d", "asc"},
		{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-02 00:00:00", "-d", "up"},
		{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-02 00:00:00", "--step", "soon"},
		{"points", "-s", "yesterday", "-e", "2023-01-02 00:00:00"},
		{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-02 00:00:00", "-f", "xml"},
		{"points", "-s", "2023-01-01 00:00:00"},
		{"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-02 00:00:00", "--log-level", "loud"},
	} {
		_, _, err := run(t, args...)
		require.Error(t, err, "case %d", i+1)
	}
}

func TestIterateDefaultStep(t *testing.T) {
	stdout, _, err := run(t, "points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 00:00:02", "--color=false")
	require.NoError(t, err)
	require.Equal(t, lines(
		"2023-01-01 00:00:00",
		"2023-01-01 00:00:01",
		"2023-01-01 00:00:02",
	), stdout)
}

func TestIterateSummaryAndOutput(t *testing.T) {
	a := require.New(t)
	name := filepath.Join(t.TempDir(), "out.txt")

	stdout, stderr, err := run(t,
		"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-03 12:00:00", "--step", "1d",
		"--color=false", "--summary", "-o", name,
	)
	a.NoError(err)
	a.Empty(stdout)
	a.Contains(stderr, "4 points")

	data, err := os.ReadFile(name)
	a.NoError(err)
	a.Equal(lines(
		"2023-01-01 00:00:00",
		"2023-01-02 00:00:00",
		"2023-01-03 00:00:00",
		"2023-01-03 12:00:00",
	), string(data))
}

func TestIterateProgress(t *testing.T) {
	stdout, _, err := run(t,
		"ranges", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 12:00:00", "--step", "9h",
		"--color=false", "--progress",
	)
	require.NoError(t, err)
	require.Equal(t, lines(
		"2023-01-01 00:00:00 2023-01-01 09:00:00 9h0m0s",
		"2023-01-01 09:00:00 2023-01-01 12:00:00 3h0m0s",
	), stdout)
}

func TestIterateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := runContext(t, ctx,
		"points", "-s", "2023-01-01 00:00:00", "-e", "2023-01-01 01:00:00", "--step", "1ms",
		"--limit", "200000", "--color=false",
	)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, stdout)
}

// cancelAfter cancels context after given number of rendered items.
type cancelAfter struct {
	renderer
	cancel context.CancelFunc
	left   int
}

func (c *cancelAfter) done() {
	c.left--
	if c.left == 0 {
		c.cancel()
	}
}

func (c *cancelAfter) Point(w io.Writer, ts time.Time) error {
	defer c.done()
	return c.renderer.Point(w, ts)
}

func (c *cancelAfter) Range(w io.Writer, rng chronoiter.Range) error {
	defer c.done()
	return c.renderer.Range(w, rng)
}

func TestEmitCanceled(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	p := intervalParams{Start: start, End: start.Add(time.Hour), Step: time.Second}

	for _, kind := range []iterateKind{iteratePoints, iterateRanges} {
		t.Run(kind.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			inner, err := newRenderer(formatText, time.DateTime, false)
			require.NoError(t, err)
			r := &cancelAfter{renderer: inner, cancel: cancel, left: 3}

			var out bytes.Buffer
			n, err := emit(ctx, kind, p, -1, &out, r)
			require.ErrorIs(t, err, context.Canceled)
			require.Equal(t, 3, n)
			require.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
		})
	}
}

func TestEstimateCount(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		kind  iterateKind
		span  time.Duration
		step  time.Duration
		limit int
		want  int64
	}{
		{iteratePoints, 0, time.Hour, -1, 1},
		{iterateRanges, 0, time.Hour, -1, 0},
		{iteratePoints, 12 * time.Hour, 9 * time.Hour, -1, 3},
		{iterateRanges, 12 * time.Hour, -9 * time.Hour, -1, 2},
		{iteratePoints, 48 * time.Hour, 24 * time.Hour, -1, 3},
		{iteratePoints, 48 * time.Hour, time.Hour, 10, 10},
		{iteratePoints, -time.Hour, time.Minute, -1, 0},
	}
	for i, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("Test%d", i+1), func(t *testing.T) {
			got := estimateCount(tt.kind, intervalParams{
				Start: start,
				End:   start.Add(tt.span),
				Step:  tt.step,
			}, tt.limit)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIterateConfig(t *testing.T) {
	a := require.New(t)
	name := filepath.Join(t.TempDir(), "chronokit.yml")
	a.NoError(os.WriteFile(name, []byte(`
layout: "2006-01-02 15:04"
location: Europe/Moscow
format: text
`), 0o600))

	stdout, _, err := run(t,
		"--config", name,
		"points", "-s", "2023-01-01 03:00", "-e", "2023-01-01 05:00", "--step", "1h", "--color=false",
	)
	a.NoError(err)
	a.Equal(lines(
		"2023-01-01 03:00",
		"2023-01-01 04:00",
		"2023-01-01 05:00",
	), stdout)

	// Format flag overrides config.
	stdout, _, err = run(t,
		"--config", name,
		"points", "-s", "2023-01-01 03:00", "-e", "2023-01-01 03:00", "--step", "1h", "-f", "json",
	)
	a.NoError(err)
	a.Equal(lines(`{"ts":"2023-01-01T03:00:00+03:00"}`), stdout)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yml"), "points", "-s", "1", "-e", "2")
	a.Error(err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "chronokit version "), stdout)
}
