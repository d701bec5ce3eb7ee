package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/paper"
	"github.com/paperlib/paperlib/internal/store"
)

var (
	listTag  string
	listSort string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers",
	Long: `List papers in the library, optionally filtered by tag.

Sort keys: title, author, year, added. Ordering is deterministic: ties
break on the paper identifier.

Examples:
  plib list --human
  plib list --tag dwarfs --sort year`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only papers with this tag")
	listCmd.Flags().StringVar(&listSort, "sort", "added", "Sort key: title, author, year, added")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	key := paper.SortKey(listSort)
	if !paper.ValidSortKey(key) {
		exitWithError(ExitError, "unknown sort key %q", listSort)
	}

	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	var summaries []paperSummary
	for p, err := range st.Papers(store.Query{Tag: listTag, Sort: key}) {
		if err != nil {
			exitWithError(ExitError, "listing papers: %v", err)
		}
		if humanOutput {
			marker := " "
			if p.Pending {
				marker = "*"
			}
			fmt.Printf("%s %-20s %s (%d)\n", marker, p.ID(),
				truncateString(p.Title, ListTitleMaxLen), p.Year)
		} else {
			summaries = append(summaries, summarize(p, nil))
		}
	}

	if !humanOutput {
		if summaries == nil {
			summaries = []paperSummary{}
		}
		outputJSON(summaries)
	}
}
