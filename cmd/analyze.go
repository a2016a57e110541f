package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dgrzelak/udscope/api/schemas"
	"github.com/dgrzelak/udscope/internal/analysis/buckets"
	"github.com/dgrzelak/udscope/internal/analysis/correlate"
	"github.com/dgrzelak/udscope/internal/analysis/extract"
	"github.com/dgrzelak/udscope/internal/analysis/rootcause"
	"github.com/dgrzelak/udscope/internal/logsource"
	"github.com/dgrzelak/udscope/internal/observability"
	"github.com/dgrzelak/udscope/internal/report"
	"github.com/dgrzelak/udscope/internal/store"
)

// analysisResult bundles everything one file's analysis produced.
type analysisResult struct {
	path        string
	diagnostics *schemas.CriticalDiagnostics
	ecuScan     *schemas.EcuDidScan
	bucketRes   *schemas.ErrorBucketResult
	rootCause   schemas.RootCauseConclusion
	technician  schemas.RootCauseConclusion
}

func newAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Analyzes diagnostic session logs and prints a critical diagnostics report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			format, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")
			noHistory, _ := cmd.Flags().GetBool("no-history")

			// Analyze every file concurrently; each run is independent and
			// the engine shares no state between calls.
			results := make([]*analysisResult, len(args))
			g, gctx := errgroup.WithContext(ctx)
			for i, path := range args {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					res, err := analyzeFile(path, logger)
					if err != nil {
						return err
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out, closeOut, err := openOutput(outputPath)
			if err != nil {
				return err
			}
			defer closeOut()

			formatter := report.New(logger, cfg.Analysis.MaxReportItems)
			for _, res := range results {
				if err := writeResult(out, formatter, res, format, len(results) > 1); err != nil {
					return err
				}
			}

			if !noHistory && !cfg.Store.Disabled {
				persistRuns(ctx, logger, results)
			}
			return nil
		},
	}

	analyzeCmd.Flags().StringP("output", "o", "", "Output file path. If unset, the report goes to stdout.")
	analyzeCmd.Flags().StringP("format", "f", "text", "Output format ('text' or 'json').")
	analyzeCmd.Flags().Bool("no-history", false, "Skip recording this run in the local history store.")

	return analyzeCmd
}

// analyzeFile runs the full pipeline over one log file.
func analyzeFile(path string, logger *zap.Logger) (*analysisResult, error) {
	entries, raw, err := logsource.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Analyzing log", zap.String("file", path), zap.Int("entries", len(entries)))

	diagnostics := extract.CriticalDiagnostics(entries, logger)
	ecuScan := correlate.ScanText(raw)
	bucketRes := buckets.Analyze(raw)
	meta := rootcause.CollectMetadata(entries)

	return &analysisResult{
		path:        path,
		diagnostics: diagnostics,
		ecuScan:     ecuScan,
		bucketRes:   bucketRes,
		rootCause:   rootcause.Generate(meta, bucketRes, ecuScan),
		technician:  rootcause.Technician(meta, bucketRes, ecuScan),
	}, nil
}

func writeResult(out *os.File, formatter *report.Formatter, res *analysisResult, format string, multi bool) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := report.MarshalEnvelope(&report.Envelope{
			File:              res.path,
			Diagnostics:       res.diagnostics,
			RootCause:         &res.rootCause,
			TechnicianSummary: &res.technician,
			ErrorBuckets:      res.bucketRes,
			EcuScan:           res.ecuScan,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal analysis for %s: %w", res.path, err)
		}
		fmt.Fprintln(out, string(data))
	case "text":
		if multi {
			fmt.Fprintf(out, "===== %s =====\n\n", res.path)
		}
		fmt.Fprint(out, formatter.CriticalDiagnostics(res.diagnostics))
		fmt.Fprint(out, formatter.ErrorBuckets(res.bucketRes))
		fmt.Fprint(out, formatter.RootCause(res.technician))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
	return nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" || path == "stdout" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// persistRuns appends run summaries to the local history store. History is
// best-effort: a failure here is logged, never fatal to the analysis run.
func persistRuns(ctx context.Context, logger *zap.Logger, results []*analysisResult) {
	path, err := cfg.Store.HistoryPath()
	if err != nil {
		logger.Warn("Skipping run history", zap.Error(err))
		return
	}
	st, err := store.Open(ctx, path, logger)
	if err != nil {
		logger.Warn("Skipping run history", zap.Error(err))
		return
	}
	defer st.Close()

	for _, res := range results {
		summary, err := report.MarshalEnvelope(&report.Envelope{
			File:              res.path,
			Diagnostics:       res.diagnostics,
			TechnicianSummary: &res.technician,
		})
		if err != nil {
			logger.Warn("Failed to serialize run summary", zap.String("file", res.path), zap.Error(err))
			continue
		}
		dtcCount := len(res.diagnostics.DtcAnalysis.ActiveDtcs) +
			len(res.diagnostics.DtcAnalysis.PendingDtcs) +
			len(res.diagnostics.DtcAnalysis.ClearedDtcs)
		if _, err := st.SaveRun(ctx, store.Run{
			File:         res.path,
			PrimaryCause: res.technician.PrimaryCause,
			RiskLevel:    string(res.technician.RiskLevel),
			DtcCount:     dtcCount,
			ErrorCount:   len(res.diagnostics.ErrorAnalysis.Errors),
			SummaryJSON:  string(summary),
		}); err != nil {
			logger.Warn("Failed to record run history", zap.String("file", res.path), zap.Error(err))
		}
	}
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}
