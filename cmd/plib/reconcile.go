package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/ads"
	"github.com/paperlib/paperlib/internal/reconcile"
)

var (
	reconcileWorkers int
	reconcileWindow  time.Duration
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check pending papers for journal publication",
	Long: `Query the authority for every pending paper whose last check is
older than the throttle window, promoting papers that have been formally
published. User-entered notes, tags, custom citation keywords, and PDF
paths survive promotion.

Run this at startup or from cron; each pending paper is queried at most
once per window regardless of how often the command runs.`,
	Args: cobra.NoArgs,
	Run:  runReconcile,
}

func init() {
	reconcileCmd.Flags().IntVar(&reconcileWorkers, "workers", reconcile.DefaultWorkers, "Concurrent lookups")
	reconcileCmd.Flags().DurationVar(&reconcileWindow, "window", reconcile.DefaultWindow, "Minimum interval between checks per paper")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	engine := reconcile.New(st, ads.NewClient())
	engine.Workers = reconcileWorkers
	engine.Window = reconcileWindow
	if humanOutput {
		engine.Logf = func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		exitWithError(ExitError, "reconciling: %v", err)
	}

	for _, f := range report.Failures {
		if strings.Contains(f.Reason, ads.ErrAuthMissing.Error()) {
			exitWithError(ExitAuthError, "%s", f.Reason)
		}
	}

	if humanOutput {
		fmt.Printf("%d pending, %d checked, %d skipped\n",
			report.Candidates, report.Checked, report.Skipped)
		for _, id := range report.Promoted {
			fmt.Printf("  promoted: %s\n", id)
		}
		for _, c := range report.Conflicts {
			fmt.Printf("  conflict: %s and %s both claim %s\n",
				c.PaperID, c.ExistingID, c.Bibcode)
		}
		for _, f := range report.Failures {
			fmt.Printf("  failed: %s (%s)\n", f.PaperID, f.Reason)
		}
	} else {
		outputJSON(report)
	}

	if len(report.Conflicts) > 0 {
		os.Exit(ExitConflict)
	}
}
