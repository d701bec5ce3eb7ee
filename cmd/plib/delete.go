package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/store"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <paper>",
	Short: "Remove a paper from the library",
	Long: `Remove a paper and its tag associations. Tags themselves are kept,
as is any downloaded PDF on disk.`,
	Args: cobra.ExactArgs(1),
	Run:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	if err := st.DeletePaper(args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "deleting paper: %v", err)
	}
	reportStatus("deleted", args[0])
}
