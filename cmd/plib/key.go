package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/store"
)

var keyReset bool

var keyCmd = &cobra.Command{
	Use:   "key <paper> [keyword]",
	Short: "Set a paper's citation keyword",
	Long: `Set the citation keyword used as the BibTeX entry key on export.

Keywords are unique across the library. Pass --reset (or an empty
keyword) to return to the default: the bibcode, or the arXiv id for a
paper without one. Default keywords track the paper when it is promoted
to a journal bibcode; custom keywords never change.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runKey,
}

func init() {
	keyCmd.Flags().BoolVar(&keyReset, "reset", false, "Reset to the default keyword")
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) {
	keyword := ""
	if len(args) == 2 {
		keyword = args[1]
	}
	if keyReset {
		keyword = ""
	}
	if keyword == "" && !keyReset && len(args) < 2 {
		exitWithError(ExitError, "provide a keyword or --reset")
	}

	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	p, err := st.SetCitationKeyword(args[0], keyword)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound),
			errors.Is(err, store.ErrDuplicateKeyword),
			errors.Is(err, store.ErrInvalidKeyword):
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "setting keyword: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s -> %s\n", p.ID(), p.CitationKeyword)
	} else {
		outputJSON(StatusResponse{Status: "updated", Paper: p.ID(), Path: p.CitationKeyword})
	}
}
