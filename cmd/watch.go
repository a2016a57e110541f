package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgrzelak/udscope/internal/analysis/buckets"
	"github.com/dgrzelak/udscope/internal/analysis/correlate"
	"github.com/dgrzelak/udscope/internal/analysis/rootcause"
	"github.com/dgrzelak/udscope/internal/logsource"
	"github.com/dgrzelak/udscope/internal/observability"
	"github.com/dgrzelak/udscope/internal/report"
)

func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Follows a growing session log, re-analyzing as lines arrive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			path := args[0]

			t, err := tail.TailFile(path, tail.Config{
				Follow:    true,
				ReOpen:    true,
				MustExist: true,
				Logger:    tail.DiscardingLogger,
			})
			if err != nil {
				return fmt.Errorf("failed to tail log file: %w", err)
			}
			defer func() {
				t.Stop()
				t.Cleanup()
			}()

			logger.Info("Watching log file", zap.String("file", path),
				zap.Duration("debounce", cfg.Watch.Debounce))

			formatter := report.New(logger, cfg.Analysis.MaxReportItems)

			// Lines accumulate until the stream goes quiet for the debounce
			// interval, then everything seen so far is re-analyzed. The
			// engine is cheap enough to re-run from scratch; that keeps the
			// correlation windows correct across re-analysis.
			var lines []string
			lastCause := ""
			debounce := time.NewTimer(cfg.Watch.Debounce)
			if !debounce.Stop() {
				<-debounce.C
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case line, ok := <-t.Lines:
					if !ok {
						return t.Err()
					}
					if line.Err != nil {
						logger.Warn("Tail error", zap.Error(line.Err))
						continue
					}
					lines = append(lines, line.Text)
					debounce.Reset(cfg.Watch.Debounce)
				case <-debounce.C:
					cause := reanalyze(lines, formatter, cmd)
					if cause != lastCause && cause != "" {
						lastCause = cause
					}
				}
			}
		},
	}
	return watchCmd
}

// reanalyze runs the technician-summary pipeline over everything seen so far
// and prints the conclusion; it returns the primary cause for delta tracking.
func reanalyze(lines []string, formatter *report.Formatter, cmd *cobra.Command) string {
	if len(lines) == 0 {
		return ""
	}
	raw := strings.Join(lines, "\n")
	entries := logsource.ParseText(raw)

	bucketRes := buckets.Analyze(raw)
	ecuScan := correlate.ScanText(raw)
	meta := rootcause.CollectMetadata(entries)
	conclusion := rootcause.Technician(meta, bucketRes, ecuScan)

	fmt.Fprintf(cmd.OutOrStdout(), "\n[%s] %d lines analyzed\n",
		time.Now().Format("15:04:05"), len(lines))
	fmt.Fprint(cmd.OutOrStdout(), formatter.RootCause(conclusion))
	return conclusion.PrimaryCause
}

func init() {
	rootCmd.AddCommand(newWatchCmd())
}
