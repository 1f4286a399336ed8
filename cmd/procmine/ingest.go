package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-procmine/procmine/eventlog"
	"github.com/go-procmine/procmine/store"
)

func ingest(args []string) error {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "SQLite database path")
	format := fs.String("format", "", "Log format: csv or jsonl (default: inferred from file extension)")
	name := fs.String("name", "", "Run name (default: input file name)")
	caseIDField := fs.String("case-id", "case_id", "Case ID column/field name")
	activityField := fs.String("activity", "activity", "Activity column/field name")
	timestampField := fs.String("timestamp", "timestamp", "Timestamp column/field name")
	resourceField := fs.String("resource", "resource", "Resource column/field name (optional)")
	lifecycleField := fs.String("lifecycle", "lifecycle", "Lifecycle column/field name (optional)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: procmine ingest <log-file> [options]

Parse a CSV or JSONL event log and store it as a run in a SQLite database.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  procmine ingest orders.csv --db runs.db
  procmine ingest orders.jsonl --db runs.db --case-id case --activity task
`)
	}

	// Flag parsing stops at the first non-flag argument, so a log file
	// given before the options is taken off first.
	var logPath string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		logPath, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if logPath == "" {
		if fs.NArg() < 1 {
			fs.Usage()
			return fmt.Errorf("log file required")
		}
		logPath = fs.Arg(0)
	}

	fileFormat := *format
	if fileFormat == "" {
		fileFormat = strings.TrimPrefix(strings.ToLower(filepath.Ext(logPath)), ".")
	}

	var log *eventlog.EventLog
	var err error
	switch fileFormat {
	case "csv":
		cfg := eventlog.DefaultCSVConfig()
		cfg.CaseIDColumn = *caseIDField
		cfg.ActivityColumn = *activityField
		cfg.TimestampColumn = *timestampField
		cfg.ResourceColumn = *resourceField
		cfg.LifecycleColumn = *lifecycleField
		log, err = eventlog.ParseCSV(logPath, cfg)
	case "jsonl", "ndjson":
		cfg := eventlog.DefaultJSONLConfig()
		cfg.CaseIDField = *caseIDField
		cfg.ActivityField = *activityField
		cfg.TimestampField = *timestampField
		cfg.ResourceField = *resourceField
		cfg.LifecycleField = *lifecycleField
		log, err = eventlog.ParseJSONL(logPath, cfg)
	default:
		return fmt.Errorf("unrecognized log format %q (use --format csv|jsonl)", fileFormat)
	}
	if err != nil {
		return fmt.Errorf("parse log: %w", err)
	}

	runName := *name
	if runName == "" {
		runName = filepath.Base(logPath)
	}

	s, err := store.New(*dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	runID, err := s.CreateRun(runName, logPath)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	var records []store.EventRecord
	for _, tr := range log.GetTraces() {
		for _, e := range tr.Events {
			records = append(records, store.EventRecord{
				CaseID:    e.CaseID,
				Activity:  e.Activity,
				Timestamp: e.Timestamp,
				Resource:  e.Resource,
			})
		}
	}
	if err := s.InsertEvents(runID, records); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}

	summary := log.Summarize()
	if err := s.UpdateRunStats(runID, summary.NumCases, summary.NumEvents, summary.NumVariants); err != nil {
		return fmt.Errorf("update run stats: %w", err)
	}

	fmt.Printf("Ingested run %d (%s): %d cases, %d events, %d variants\n",
		runID, runName, summary.NumCases, summary.NumEvents, summary.NumVariants)
	return nil
}
