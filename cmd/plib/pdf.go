package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/pdfget"
	"github.com/paperlib/paperlib/internal/store"
)

var (
	pdfPath    string
	pdfTimeout time.Duration
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <paper>",
	Short: "Fetch or record a paper's PDF",
	Long: `Download the PDF for a paper into the library's PDF directory.

Publisher copies are tried first through the ADS link gateway, falling
back to arXiv when the paper has no usable bibcode. Use --path to record
an already-downloaded file instead of fetching.`,
	Args: cobra.ExactArgs(1),
	Run:  runPDF,
}

func init() {
	pdfCmd.Flags().StringVar(&pdfPath, "path", "", "Record an existing file instead of downloading")
	pdfCmd.Flags().DurationVar(&pdfTimeout, "timeout", 2*time.Minute, "Download timeout")
	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	p, err := st.Get(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "looking up paper: %v", err)
	}

	dest := pdfPath
	if dest == "" {
		dir := cfg.PDFPath()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			exitWithError(ExitConfigError, "creating pdf directory: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), pdfTimeout)
		defer cancel()

		fetcher := pdfget.NewFetcher()
		dest, err = fetcher.Fetch(ctx, *p, dir)
		if err != nil {
			if errors.Is(err, pdfget.ErrNoPDF) {
				exitWithError(ExitDataError, "no PDF available for %s", p.ID())
			}
			exitWithError(ExitError, "fetching PDF: %v", err)
		}
	} else {
		if _, err := os.Stat(dest); err != nil {
			exitWithError(ExitDataError, "checking %s: %v", dest, err)
		}
	}

	if err := st.SetLocalPDF(p.ID(), dest); err != nil {
		exitWithError(ExitError, "recording PDF path: %v", err)
	}

	if humanOutput {
		fmt.Printf("PDF for %s: %s\n", p.ID(), dest)
	} else {
		outputJSON(StatusResponse{Status: "fetched", Paper: p.ID(), Path: dest})
	}
}
