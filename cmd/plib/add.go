package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/ads"
	"github.com/paperlib/paperlib/internal/resolve"
	"github.com/paperlib/paperlib/internal/store"
)

var addTags []string

var addCmd = &cobra.Command{
	Use:   "add <reference>",
	Short: "Add a paper from a bibcode, arXiv id, or URL",
	Long: `Add a paper to the library.

The reference can be an ADS bibcode, an ADS abstract-page URL, an arXiv
abstract or PDF URL, or a bare arXiv id. The paper's record is fetched
from ADS; requires ADS_API_TOKEN.

Examples:
  plib add 2021MNRAS.508.5935B
  plib add https://arxiv.org/abs/2106.12420 --tag dwarfs --tag clusters`,
	Args: cobra.ExactArgs(1),
	Run:  runAdd,
}

func init() {
	addCmd.Flags().StringArrayVar(&addTags, "tag", nil, "Tag to apply (repeatable)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	id, err := resolve.Resolve(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	client := ads.NewClient()
	ctx, cancel := context.WithTimeout(context.Background(), ads.DefaultTimeout)
	defer cancel()

	rec, err := client.Fetch(ctx, id)
	if err != nil {
		code := ExitError
		if errors.Is(err, ads.ErrAuthMissing) {
			code = ExitAuthError
		}
		exitWithError(code, "fetching record: %v", err)
	}

	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	p, err := st.InsertNew(*rec, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrDuplicatePaper) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "adding paper: %v", err)
	}

	if len(addTags) > 0 {
		if err := st.SetTags(p.ID(), addTags); err != nil {
			exitWithError(ExitError, "tagging paper: %v", err)
		}
	}

	if humanOutput {
		fmt.Printf("Added %s\n", p.ID())
		fmt.Printf("  %s\n", truncateString(p.Title, ListTitleMaxLen))
		if p.Pending {
			fmt.Println("  awaiting journal publication; will reconcile against ADS")
		}
	} else {
		outputJSON(summarize(*p, addTags))
	}
}
