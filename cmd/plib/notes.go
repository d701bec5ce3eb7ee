package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/store"
)

var notesSet string

var notesCmd = &cobra.Command{
	Use:   "notes <paper>",
	Short: "Show or set a paper's notes",
	Long: `Show a paper's notes, or replace them with --set. Notes are
user-owned: reconciliation never touches them.

Examples:
  plib notes 2106.12420 --human
  plib notes 2106.12420 --set "Compare with the 2019 sample"`,
	Args: cobra.ExactArgs(1),
	Run:  runNotes,
}

func init() {
	notesCmd.Flags().StringVar(&notesSet, "set", "", "Replace the notes text")
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	if cmd.Flags().Changed("set") {
		if err := st.SetNotes(args[0], notesSet); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				exitWithError(ExitDataError, "%v", err)
			}
			exitWithError(ExitError, "setting notes: %v", err)
		}
		reportStatus("updated", args[0])
		return
	}

	p, err := st.Get(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "looking up paper: %v", err)
	}

	if humanOutput {
		fmt.Println(p.Notes)
	} else {
		outputJSON(map[string]string{"paper": p.ID(), "notes": p.Notes})
	}
}
