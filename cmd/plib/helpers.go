package main

import (
	"github.com/paperlib/paperlib/internal/config"
	"github.com/paperlib/paperlib/internal/journal"
	"github.com/paperlib/paperlib/internal/store"
)

// loadConfig loads the global config or exits.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// loadJournals builds the journal table, applying any configured overrides.
func loadJournals(cfg *config.Config) *journal.Table {
	table := journal.NewTable()
	if cfg.JournalOverrides != "" {
		if err := table.LoadOverrides(cfg.JournalOverrides); err != nil {
			exitWithError(ExitConfigError, "loading journal overrides: %v", err)
		}
	}
	return table
}

// mustOpenStore opens the library database or exits.
func mustOpenStore(cfg *config.Config, journals *journal.Table) *store.Store {
	st, err := store.Open(cfg.DBPath(), store.WithJournalTable(journals))
	if err != nil {
		exitWithError(ExitConfigError, "opening library: %v", err)
	}
	return st
}
