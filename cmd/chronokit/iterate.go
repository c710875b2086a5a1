package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/go-faster/chronokit/chronoiter"
	"github.com/go-faster/chronokit/internal/iterators"
	"github.com/go-faster/chronokit/internal/timeparse"
)

type iterateKind string

const (
	iteratePoints iterateKind = "points"
	iterateRanges iterateKind = "ranges"
)

// intervalParams is a resolved interval to iterate over.
type intervalParams struct {
	Start time.Time
	End   time.Time
	Step  time.Duration
}

type intervalFlags struct {
	start     string
	end       string
	step      string
	direction string
}

func (f intervalFlags) resolve(cfg Config) (p intervalParams, _ error) {
	loc, err := cfg.location()
	if err != nil {
		return p, err
	}
	if p.Start, err = timeparse.ParseTimestamp(f.start, cfg.Layout, loc); err != nil {
		return p, errors.Wrap(err, "parse start")
	}
	if p.End, err = timeparse.ParseTimestamp(f.end, cfg.Layout, loc); err != nil {
		return p, errors.Wrap(err, "parse end")
	}

	if f.step != "" {
		if p.Step, err = timeparse.ParseStep(f.step); err != nil {
			return p, err
		}
	} else {
		p.Step = timeparse.DefaultStep(p.Start, p.End)
	}

	if f.direction != "" {
		dir, err := timeparse.ParseDirection(f.direction)
		if err != nil {
			return p, errors.Wrap(err, "parse direction")
		}
		if p.Step, err = timeparse.OrientStep(p.Step, dir); err != nil {
			return p, err
		}
	}
	return p, nil
}

func iterateCmd(kind iterateKind, cfgPath *string) *cobra.Command {
	var (
		interval intervalFlags
		render   renderOptions
	)
	cmd := &cobra.Command{
		Use:   string(kind),
		Args:  cobra.NoArgs,
		Short: "Print " + string(kind) + " of the interval",
		RunE: func(cmd *cobra.Command, _ []string) (rerr error) {
			var (
				ctx = cmd.Context()
				lg  = zctx.From(ctx)
			)

			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			if render.format != "" {
				cfg.Format = render.format
			}
			r, err := newRenderer(cfg.Format, cfg.Layout, render.color)
			if err != nil {
				return err
			}

			params, err := interval.resolve(cfg)
			if err != nil {
				return err
			}
			lg.Debug("Iterate",
				zap.Stringer("kind", kind),
				zap.Time("start", params.Start),
				zap.Time("end", params.End),
				zap.Duration("step", params.Step),
			)

			var out io.Writer = cmd.OutOrStdout()
			if render.output != "" {
				f, err := os.Create(render.output)
				if err != nil {
					return errors.Wrap(err, "create output")
				}
				defer func() {
					if err := f.Close(); err != nil {
						rerr = multierr.Append(rerr, errors.Wrap(err, "close output"))
					}
				}()
				out = f
			}

			var bar *progressbar.ProgressBar
			if render.progress {
				bar = progressbar.NewOptions64(
					estimateCount(kind, params, render.limit),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription(kind.String()),
				)
				r = progressRenderer{renderer: r, bar: bar}
			}

			n, err := emit(ctx, kind, params, render.limit, out, r)
			if err != nil {
				if bar != nil {
					_ = bar.Exit()
				}
				return err
			}
			if bar != nil {
				if err := bar.Finish(); err != nil {
					return errors.Wrap(err, "finish progress")
				}
			}
			lg.Debug("Done", zap.Int("count", n))

			if render.summary {
				if _, err := io.WriteString(cmd.ErrOrStderr(), humanize.Comma(int64(n))+" "+string(kind)+"\n"); err != nil {
					return errors.Wrap(err, "write summary")
				}
			}
			return nil
		},
	}
	{
		flags := cmd.Flags()
		flags.StringVarP(&interval.start, "start", "s", "", "Start of the interval")
		flags.StringVarP(&interval.end, "end", "e", "", "End of the interval")
		flags.StringVar(&interval.step, "step", "", "Step duration, negative walks backward (default: interval / 250, at least 1s)")
		flags.StringVarP(&interval.direction, "direction", "d", "", "Direction of traversal (asc, desc)")
		errors.Must(true, cmd.MarkFlagRequired("start"))
		errors.Must(true, cmd.MarkFlagRequired("end"))
		errors.Must(true, cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions(
			maps.Keys(timeparse.DirectionMap),
			cobra.ShellCompDirectiveDefault,
		)))
		render.Register(flags)
	}
	switch kind {
	case iteratePoints:
		cmd.Example = heredoc.Doc(`
# Print every day of the first week of 2023.
chronokit points -s '2023-01-01 00:00:00' -e '2023-01-07 00:00:00' --step 1d

# Walk backward in 9 hour steps, the last point is always the start.
chronokit points -s '2023-01-01 00:00:00' -e '2023-01-01 12:00:00' --step -9h
		`)
	case iterateRanges:
		cmd.Example = heredoc.Doc(`
# Split a day into 6 hour ranges.
chronokit ranges -s '2023-01-01 00:00:00' -e '2023-01-02 00:00:00' --step 6h

# Same ranges, latest first, as JSON lines.
chronokit ranges -s 1672531200 -e 1672617600 --step 6h -d desc -f json
		`)
	}
	return cmd
}

// estimateCount returns expected number of emitted items.
//
// Interval longer than the maximum duration is estimated by the maximum.
func estimateCount(kind iterateKind, p intervalParams, limit int) int64 {
	step := p.Step
	if step < 0 {
		step = -step
	}
	span := p.End.Sub(p.Start)
	if step == 0 || span < 0 {
		return 0
	}

	n := int64(span / step)
	if span%step != 0 {
		n++
	}
	n++ // Both endpoints.
	if kind == iterateRanges {
		n--
	}
	if limit >= 0 && n > int64(limit) {
		n = int64(limit)
	}
	return n
}

func (k iterateKind) String() string {
	return string(k)
}

// emit renders items of given kind, stopping early if ctx is done.
func emit(ctx context.Context, kind iterateKind, p intervalParams, limit int, w io.Writer, r renderer) (n int, _ error) {
	count := func(render func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := render(); err != nil {
			return err
		}
		n++
		return nil
	}
	switch kind {
	case iteratePoints:
		it, err := chronoiter.NewPointIter(p.Start, p.End, p.Step)
		if err != nil {
			return 0, errors.Wrap(err, "create iterator")
		}
		err = iterators.ForEach[time.Time](limited[time.Time](it, limit), func(ts time.Time) error {
			return count(func() error { return r.Point(w, ts) })
		})
		return n, err
	case iterateRanges:
		it, err := chronoiter.NewRangeIter(p.Start, p.End, p.Step)
		if err != nil {
			return 0, errors.Wrap(err, "create iterator")
		}
		err = iterators.ForEach[chronoiter.Range](limited[chronoiter.Range](it, limit), func(rng chronoiter.Range) error {
			return count(func() error { return r.Range(w, rng) })
		})
		return n, err
	default:
		return 0, errors.Errorf("unexpected kind %q", kind)
	}
}

// limitIterator stops after given number of elements.
type limitIterator[T any] struct {
	iterators.Iterator[T]
	left int
}

func limited[T any](it iterators.Iterator[T], limit int) iterators.Iterator[T] {
	if limit < 0 {
		return it
	}
	return &limitIterator[T]{Iterator: it, left: limit}
}

func (i *limitIterator[T]) Next(t *T) bool {
	if i.left <= 0 {
		return false
	}
	i.left--
	return i.Iterator.Next(t)
}
