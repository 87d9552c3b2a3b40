package seeddata

import "os"

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Jury Seed Data Tool
===================

Generates a reproducible judging event, writes it through the evaluation
service and verifies the overall and per-track rankings against an
independent recomputation.

Storage settings come from the same JURY_* environment and JURY_CONFIG file
as the daemon; -driver and -path override them.

Usage:
  go run ./cmd/seed-data [options]

Options:
  -driver string
        Storage driver: memory, file, bolt, sqlite, postgres, s3
  -path string
        Storage location for the file, bolt and sqlite drivers
  -projects int
        Number of projects to generate (default 60)
  -judges int
        Number of judges to generate (default 12)
  -criteria int
        Number of criteria taken from the catalog (default 6)
  -coverage float
        Share of assigned projects each judge scores (default 0.8)
  -workers int
        Number of concurrent score writers (default CPU cores)
  -seed uint
        Generator seed (default 2024)
  -output string
        Export the resulting snapshot to this file
  -verbose
        Log every submitted score
  -help
        Show this help message

Examples:
  # Seed an in-memory store and verify the rankings
  go run ./cmd/seed-data -driver memory

  # Seed a bolt file with a larger event
  go run ./cmd/seed-data -driver bolt -path data/demo.db -projects 200 -judges 30
`)
}
