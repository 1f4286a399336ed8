package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "ingest":
		if err := ingest(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "footprint":
		if err := footprint(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "discover":
		if err := discover(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("procmine version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`procmine - process mining from event logs

Usage:
  procmine <command> [options]

Commands:
  ingest     Parse a CSV/JSONL event log and store it in a run database
  footprint  Print the footprint matrix for a stored log
  discover   Run Alpha or Heuristic mining and emit the discovered model
  help       Show this help message
  version    Show version information

Examples:
  # Ingest a CSV log into a SQLite run database
  procmine ingest orders.csv --db runs.db --case-id case_id --activity activity --timestamp timestamp

  # Show the footprint matrix for a run
  procmine footprint --db runs.db --run 1

  # Discover a Petri net with the Alpha miner
  procmine discover --db runs.db --run 1 --method alpha

  # Discover a dependency graph and causal net with the Heuristic miner
  procmine discover --db runs.db --run 1 --method heuristic --dependency-measure-min 0.3

For command-specific help, run:
  procmine <command> --help`)
}
