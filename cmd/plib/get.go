package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/store"
)

var getCmd = &cobra.Command{
	Use:   "get <paper>",
	Short: "Show one paper",
	Long: `Show a paper's record. The paper may be referenced by bibcode,
arXiv id, or citation keyword.`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	journals := loadJournals(cfg)
	st := mustOpenStore(cfg, journals)
	defer st.Close()

	p, err := st.Get(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "looking up paper: %v", err)
	}

	tags, err := st.TagsOf(p.ID())
	if err != nil {
		exitWithError(ExitError, "listing tags: %v", err)
	}

	if humanOutput {
		printPaperHuman(*p, tags, journals.Name(p.Journal))
	} else {
		outputJSON(summarize(*p, tags))
	}
}
