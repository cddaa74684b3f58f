package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tech-radar/internal/app"
	"tech-radar/internal/config"
	"tech-radar/internal/eval"
	"tech-radar/internal/logger"
)

var (
	green = color.New(color.FgGreen, color.Bold).SprintFunc()
	red   = color.New(color.FgRed, color.Bold).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// builders construct the model-facing dependencies; tests swap them out.
type builders struct {
	generator func(ctx context.Context, log *slog.Logger) (eval.Generator, error)
	judge     func(ctx context.Context, log *slog.Logger) (*eval.Judge, error)
}

func defaultBuilders() builders {
	return builders{
		generator: func(ctx context.Context, log *slog.Logger) (eval.Generator, error) {
			return app.BuildGenerator(ctx, config.Load().Models, log)
		},
		judge: func(ctx context.Context, log *slog.Logger) (*eval.Judge, error) {
			return app.BuildJudge(ctx, config.Load().Models, log)
		},
	}
}

func main() {
	if err := newRootCommand(defaultBuilders()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(b builders) *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:          "radar",
		Short:        "Generate and evaluate Tech Radar meeting invite blurbs",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	logTo := func(w io.Writer) *slog.Logger { return logger.NewWithWriter(w, logLevel, "radar") }

	root.AddCommand(newGenerateCommand(b, logTo), newEvalCommand(b, logTo))
	return root
}

func newGenerateCommand(b builders, logTo func(io.Writer) *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:     "generate <session description>",
		Short:   "Write an invite blurb for a Tech Radar session",
		Example: `  radar generate "Datadog is presenting LLM observability"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			gen, err := b.generator(ctx, logTo(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			reply, err := gen.Invoke(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
			return nil
		},
	}
}

func newEvalCommand(b builders, logTo func(io.Writer) *slog.Logger) *cobra.Command {
	var casesPath string
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score generated blurbs against reference blurbs with an LLM judge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logTo(cmd.ErrOrStderr())
			cases, err := eval.LoadCasesFile(casesPath)
			if err != nil {
				return err
			}
			gen, err := b.generator(ctx, log)
			if err != nil {
				return err
			}
			judge, err := b.judge(ctx, log)
			if err != nil {
				return err
			}

			outcomes := eval.Run(ctx, gen, judge, cases)
			out := cmd.OutOrStdout()
			for _, o := range outcomes {
				printOutcome(out, o)
			}
			failed := eval.Failed(outcomes)
			fmt.Fprintf(out, "\n%s %d passed, %d failed\n", bold("Summary:"), len(outcomes)-failed, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&casesPath, "cases", "", "Path to a JSON file of cases (defaults to the built-in set)")
	return cmd
}

func printOutcome(w io.Writer, o eval.Outcome) {
	switch {
	case o.Err != nil:
		fmt.Fprintf(w, "%s %s\n  %s\n", red("ERROR"), o.Case.Name, gray(o.Err.Error()))
	case o.Passed():
		fmt.Fprintf(w, "%s %s\n  %s\n", green("PASS"), o.Case.Name, gray(o.Verdict.Reasoning))
	default:
		fmt.Fprintf(w, "%s %s\n  %s\n", red("FAIL"), o.Case.Name, gray(o.Verdict.Reasoning))
	}
}
