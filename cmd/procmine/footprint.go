package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-procmine/procmine/mining"
	"github.com/go-procmine/procmine/store"
)

func footprint(args []string) error {
	fs := flag.NewFlagSet("footprint", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "SQLite database path")
	runID := fs.Int64("run", 0, "Run id to inspect")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procmine footprint --db runs.db --run <id>

Print the footprint matrix (causality, parallel, choice) for a stored run.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == 0 {
		fs.Usage()
		return fmt.Errorf("--run is required")
	}

	s, err := store.New(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	traces, err := loadMiningTraces(s, *runID)
	if err != nil {
		return err
	}

	r := mining.ExtractRelations(traces)
	fp := mining.BuildFootprint(r)
	fp.Print()
	return nil
}

func loadMiningTraces(s *store.Store, runID int64) ([]mining.Trace, error) {
	raw, err := s.LoadTraces(runID)
	if err != nil {
		return nil, fmt.Errorf("load traces: %w", err)
	}
	traces := make([]mining.Trace, len(raw))
	for i, activities := range raw {
		traces[i] = mining.Trace(activities)
	}
	return traces, nil
}
