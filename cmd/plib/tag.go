package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperlib/paperlib/internal/store"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	Run:   runTagAdd,
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a tag (papers are kept)",
	Args:  cobra.ExactArgs(1),
	Run:   runTagRm,
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags",
	Args:  cobra.NoArgs,
	Run:   runTagList,
}

var tagSetCmd = &cobra.Command{
	Use:   "set <paper> [tag...]",
	Short: "Replace a paper's tag set",
	Long: `Replace the full tag set of a paper. Tags are created on first
use. With no tags given, the paper is untagged.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runTagSet,
}

func init() {
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagListCmd, tagSetCmd)
	rootCmd.AddCommand(tagCmd)
}

func runTagAdd(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	if err := st.AddTag(args[0]); err != nil {
		exitWithError(ExitError, "adding tag: %v", err)
	}
	reportStatus("added", args[0])
}

func runTagRm(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	if err := st.DeleteTag(args[0]); err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "deleting tag: %v", err)
	}
	reportStatus("deleted", args[0])
}

func runTagList(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	tags, err := st.Tags()
	if err != nil {
		exitWithError(ExitError, "listing tags: %v", err)
	}

	if humanOutput {
		for _, t := range tags {
			fmt.Println(t)
		}
	} else {
		if tags == nil {
			tags = []string{}
		}
		outputJSON(tags)
	}
}

func runTagSet(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	st := mustOpenStore(cfg, loadJournals(cfg))
	defer st.Close()

	ref, tags := args[0], args[1:]
	if err := st.SetTags(ref, tags); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "setting tags: %v", err)
	}

	if humanOutput {
		if len(tags) == 0 {
			fmt.Printf("Untagged %s\n", ref)
		} else {
			fmt.Printf("Tagged %s: %s\n", ref, strings.Join(tags, ", "))
		}
	} else {
		outputJSON(StatusResponse{Status: "tagged", Paper: ref})
	}
}

func reportStatus(status, name string) {
	if humanOutput {
		fmt.Printf("%s: %s\n", status, name)
	} else {
		outputJSON(StatusResponse{Status: status, Paper: name})
	}
}
