package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/config"
	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/metrics"
	"github.com/jidcheck/jidcheck/internal/observability"
	"github.com/jidcheck/jidcheck/internal/output"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [identifier...]",
		Short: "Check identifiers for Cyrillic lookalike characters",
		Long: `Check one or more Jabber IDs for Cyrillic letters that imitate Latin ones.

Identifiers come from the arguments or, with --file, one per line from a
file ("-" reads stdin). Blank lines and lines starting with # are skipped.

Exit codes: 0 when the run completes, 1 with --fail-on-flagged when any
identifier is flagged.`,
		Example: `  jidcheck check usеr@jabber.ru
  jidcheck check --output table alice@example.org bоb@example.org
  jidcheck check --file ids.txt --output json --out reports/`,
		RunE: runCheck,
	}

	cmd.Flags().StringP("file", "f", "", "read identifiers from a file, one per line (- for stdin)")
	cmd.Flags().StringP("output", "o", string(output.FormatText), "output format: "+formatList())
	cmd.Flags().String("out", "", "write output to a file (a trailing / names a directory)")
	cmd.Flags().String("locale", "", "report locale: ru, en (default from config)")
	cmd.Flags().Int("max-length", 0, "maximum identifier length in code points (default from config)")
	cmd.Flags().Int("concurrency", 0, "number of identifiers checked in parallel (default from config)")
	cmd.Flags().Bool("fail-on-flagged", false, "exit with code 1 when any identifier is flagged")
	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

var checkBindings = map[string]string{
	"locale":      "report.locale",
	"max-length":  "check.max_length",
	"concurrency": "check.concurrency",
}

func formatList() string {
	names := make([]string, 0, len(output.Formats))
	for _, format := range output.Formats {
		names = append(names, string(format))
	}
	return strings.Join(names, ", ")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := resolveOutputFormat(cmd)
	if err != nil {
		return apperrors.WrapInvalidInput(ctx, err, "invalid --output")
	}

	inputFile, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	inputs, err := resolveInputs(args, inputFile, cmd.InOrStdin())
	if err != nil {
		return apperrors.WrapInvalidInput(ctx, err, "no identifiers to check")
	}

	failOnFlagged, err := cmd.Flags().GetBool("fail-on-flagged")
	if err != nil {
		return err
	}
	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	cfg, err := loadConfig(ctx, flagOverrides(cmd, checkBindings))
	if err != nil {
		return err
	}

	items, err := checkInputs(ctx, cfg, inputs)
	if err != nil {
		return apperrors.WrapInternal(ctx, err, "check interrupted")
	}

	rendered, err := output.NewFormatter(format, report.MessagesFor(cfg.Report.Locale), cfg.Check.MaxLength).FormatItems(items)
	if err != nil {
		return apperrors.WrapInternal(ctx, err, "failed to render output")
	}

	if err := writeOutput(outPath, format, cmd.OutOrStdout(), rendered); err != nil {
		return apperrors.WrapInternal(ctx, err, "failed to write output")
	}

	summary := engine.Summarize(items)
	observability.CLILogger.Debug("Check complete",
		zap.Int("total", summary.Total),
		zap.Int("flagged", summary.Flagged),
		zap.Int("rejected", summary.Rejected),
		zap.String("format", string(format)))

	if failOnFlagged && summary.Flagged > 0 {
		return ErrFlagged
	}
	return nil
}

// checkInputs runs the batch with the configured limits, recording one
// metric per identifier.
func checkInputs(ctx context.Context, cfg *config.Config, inputs []string) ([]engine.Item, error) {
	runner := &engine.Runner{
		Concurrency: cfg.Check.Concurrency,
		MaxLength:   cfg.Check.MaxLength,
		Observe: func(item engine.Item) {
			if item.Rejected() {
				metrics.RecordRejection(metrics.SourceCLI, apperrors.InputPolicyReason(item.Err))
				return
			}
			metrics.RecordCheck(metrics.SourceCLI, len(item.Result.Flagged), item.Duration)
		},
	}
	return runner.Run(ctx, inputs)
}

func resolveOutputFormat(cmd *cobra.Command) (output.Format, error) {
	value, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	return output.ParseFormat(value)
}

func writeOutput(path string, format output.Format, stdout io.Writer, rendered string) error {
	sink, err := openSink(path, format, stdout)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
		_ = sink.close()
		return err
	}
	if err := sink.close(); err != nil {
		return err
	}
	if sink.path != "-" {
		observability.CLILogger.Info("Wrote output", zap.String("path", sink.path))
	}
	return nil
}
