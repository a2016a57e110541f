package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgrzelak/udscope/internal/observability"
	"github.com/dgrzelak/udscope/internal/store"
)

func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Lists prior analysis runs from the local history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			limit, _ := cmd.Flags().GetInt("limit")

			path, err := cfg.Store.HistoryPath()
			if err != nil {
				return err
			}
			st, err := store.Open(ctx, path, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No prior analysis runs recorded.")
				return nil
			}

			logger.Debug("Loaded run history", zap.Int("count", len(runs)))
			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s  %-35s  risk=%-8s  dtcs=%d errors=%d\n",
					r.AnalyzedAt.Format("2006-01-02 15:04"), truncatePath(r.File, 40),
					r.PrimaryCause, r.RiskLevel, r.DtcCount, r.ErrorCount)
			}
			return nil
		},
	}

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list.")
	return historyCmd
}

func truncatePath(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-(n-3):]
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
