package main

import (
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"

	"github.com/go-faster/chronokit/chronoiter"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type renderOptions struct {
	format   string
	color    bool
	summary  bool
	progress bool
	output   string
	limit    int
}

func (opts *renderOptions) Register(set *pflag.FlagSet) {
	set.StringVarP(&opts.format, "format", "f", "", "Output format (text, json), defaults to config value")
	disableColor := os.Getenv("NO_COLOR") != "" ||
		os.Getenv("TERM") == "dumb" ||
		(!isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()))
	set.BoolVar(&opts.color, "color", !disableColor, "Enable color")
	set.BoolVar(&opts.summary, "summary", false, "Print number of emitted items to stderr")
	set.BoolVar(&opts.progress, "progress", false, "Show progress bar on stderr")
	set.StringVarP(&opts.output, "output", "o", "", "Write output to file instead of stdout")
	set.IntVarP(&opts.limit, "limit", "l", -1, "Limit number of emitted items")
}

// renderer writes single item per line.
type renderer interface {
	Point(w io.Writer, ts time.Time) error
	Range(w io.Writer, r chronoiter.Range) error
}

func newRenderer(format, layout string, colored bool) (renderer, error) {
	switch format {
	case formatText:
		return newTextRenderer(layout, colored), nil
	case formatJSON:
		return &jsonRenderer{}, nil
	default:
		return nil, errors.Errorf("unexpected format %q", format)
	}
}

type textRenderer struct {
	layout string
	ts     *color.Color
	dur    *color.Color
	buf    []byte
}

func newTextRenderer(layout string, colored bool) *textRenderer {
	r := &textRenderer{
		layout: layout,
		ts:     color.New(color.FgBlue),
		dur:    color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.ts, r.dur} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *textRenderer) Point(w io.Writer, ts time.Time) error {
	r.buf = append(r.buf[:0], r.ts.Sprint(ts.Format(r.layout))...)
	r.buf = append(r.buf, '\n')
	_, err := w.Write(r.buf)
	return err
}

func (r *textRenderer) Range(w io.Writer, rng chronoiter.Range) error {
	buf := r.buf[:0]
	buf = append(buf, r.ts.Sprint(rng.Start.Format(r.layout))...)
	buf = append(buf, ' ')
	buf = append(buf, r.ts.Sprint(rng.End.Format(r.layout))...)
	buf = append(buf, ' ')
	buf = append(buf, r.dur.Sprint(rng.Duration().String())...)
	buf = append(buf, '\n')
	r.buf = buf
	_, err := w.Write(buf)
	return err
}

// jsonRenderer writes JSON lines with RFC3339 timestamps.
type jsonRenderer struct {
	e jx.Encoder
}

func (r *jsonRenderer) flush(w io.Writer) error {
	r.e.RawStr("\n")
	_, err := w.Write(r.e.Bytes())
	r.e.Reset()
	return err
}

func (r *jsonRenderer) Point(w io.Writer, ts time.Time) error {
	r.e.Obj(func(e *jx.Encoder) {
		e.Field("ts", func(e *jx.Encoder) {
			e.Str(ts.Format(time.RFC3339Nano))
		})
	})
	return r.flush(w)
}

func (r *jsonRenderer) Range(w io.Writer, rng chronoiter.Range) error {
	r.e.Obj(func(e *jx.Encoder) {
		e.Field("start", func(e *jx.Encoder) {
			e.Str(rng.Start.Format(time.RFC3339Nano))
		})
		e.Field("end", func(e *jx.Encoder) {
			e.Str(rng.End.Format(time.RFC3339Nano))
		})
		e.Field("duration", func(e *jx.Encoder) {
			e.Str(rng.Duration().String())
		})
	})
	return r.flush(w)
}

// progressRenderer advances progress bar after each rendered item.
type progressRenderer struct {
	renderer
	bar *progressbar.ProgressBar
}

func (r progressRenderer) Point(w io.Writer, ts time.Time) error {
	if err := r.renderer.Point(w, ts); err != nil {
		return err
	}
	return r.bar.Add(1)
}

func (r progressRenderer) Range(w io.Writer, rng chronoiter.Range) error {
	if err := r.renderer.Range(w, rng); err != nil {
		return err
	}
	return r.bar.Add(1)
}
