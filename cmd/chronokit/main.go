// Binary chronokit prints timestamps or ranges of a time interval.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	_ "time/tzdata"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-faster/chronokit/internal/cliversion"
)

// ColorLevelEncoder is single-character color encoder for zapcore.Level.
func ColorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString(color.New(color.FgCyan).Sprint("D"))
	case zapcore.InfoLevel:
		enc.AppendString(color.New(color.FgBlue).Sprint("I"))
	case zapcore.WarnLevel:
		enc.AppendString(color.New(color.FgYellow).Sprint("W"))
	case zapcore.ErrorLevel:
		enc.AppendString(color.New(color.FgRed).Sprint("E"))
	default:
		enc.AppendString("U")
	}
}

func newLogger(w io.Writer, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = ColorLevelEncoder
	encCfg.ConsoleSeparator = " "

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core), nil
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath  string
		logLevel string
	)
	root := &cobra.Command{
		Use:   "chronokit",
		Short: "chronokit walks a time interval in fixed steps",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lg, err := newLogger(cmd.ErrOrStderr(), logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(zctx.Base(cmd.Context(), lg))
			return nil
		},
	}
	{
		flags := root.PersistentFlags()
		flags.StringVar(&cfgPath, "config", "", "Path to config file (default "+defaultConfigName+" if present)")
		flags.StringVar(&logLevel, "log-level", "info", "Log level")
	}
	root.AddCommand(
		iterateCmd(iteratePoints, &cfgPath),
		iterateCmd(iterateRanges, &cfgPath),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				info, _ := cliversion.Get(cliversion.ModulePath)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "chronokit %s\n", info)
			},
		},
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, ctx.Err()) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
