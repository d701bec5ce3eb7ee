package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/export"
	"github.com/paperlib/paperlib/internal/paper"
	"github.com/paperlib/paperlib/internal/store"
)

var (
	exportTag string
	exportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export [paper]",
	Short: "Export BibTeX entries",
	Long: `Export BibTeX for one paper, a tag, or the whole library.

Entries are emitted as stored, with the entry key rewritten to the
paper's citation keyword. Output goes to stdout unless --out is given.

Examples:
  plib export 2021MNRAS.508.5935B
  plib export --tag dwarfs --out dwarfs.bib
  plib export --out library.bib`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTag, "tag", "", "Only papers with this tag")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	if len(args) == 1 && exportTag != "" {
		exitWithError(ExitError, "give a paper or --tag, not both")
	}

	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	var papers []paper.Paper
	if len(args) == 1 {
		p, err := st.Get(args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				exitWithError(ExitDataError, "%v", err)
			}
			exitWithError(ExitError, "looking up paper: %v", err)
		}
		papers = []paper.Paper{*p}
	} else {
		var err error
		papers, err = st.AllPapers(store.Query{Tag: exportTag, Sort: paper.SortAdded})
		if err != nil {
			exitWithError(ExitError, "listing papers: %v", err)
		}
	}

	if exportOut != "" {
		if err := export.WriteFile(exportOut, papers); err != nil {
			exitWithError(ExitError, "writing %s: %v", exportOut, err)
		}
		if humanOutput {
			fmt.Printf("Wrote %d entries to %s\n", len(papers), exportOut)
		} else {
			outputJSON(StatusResponse{Status: "exported", Path: exportOut})
		}
		return
	}

	fmt.Print(export.Entries(papers))
}
