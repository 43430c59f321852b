package main

import (
	"context"
	"flag"
	"time"

	"github.com/matthewdavidson09/directory-reconciler/internal/cli"
	"github.com/matthewdavidson09/directory-reconciler/internal/hr"
	"github.com/matthewdavidson09/directory-reconciler/internal/reconcile"
	"github.com/matthewdavidson09/directory-reconciler/internal/report"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

func main() {
	var (
		envFile   = flag.String("env", ".env", "environment file to load")
		hrPath    = flag.String("hr", "", "HR export CSV (required)")
		rangeName = flag.String("range", "", "LastYear, LastQuarter, LastMonth, LastWeek, LastDay; empty for all")
		joinName  = flag.String("join", "displayName", "join key: displayName, employeeID, normalized")
		disable   = flag.Bool("disable", false, "disable enabled accounts (default is a dry run)")
		reportDir = flag.String("report", "", "write a per-record CSV report into this directory")
	)
	flag.Parse()

	cfg, runID, closeTranscript, err := cli.Setup(*envFile, "disable-terminated")
	if err != nil {
		tools.Log.Fatalf("Setup failed: %v", err)
	}
	defer closeTranscript()
	log := tools.Log.WithField("run", runID)

	if *hrPath == "" {
		log.Fatal("-hr is required")
	}

	dateRange, ok := reconcile.ParseDateRange(*rangeName)
	if !ok {
		log.Warnf("Unknown date range %q, processing all terminations", *rangeName)
	}

	join, err := reconcile.ParseJoinStrategy(*joinName)
	if err != nil {
		log.Fatalf("Invalid -join: %v", err)
	}

	// Load HR data before touching the directory.
	parsed, err := hr.LoadFile(*hrPath, time.Local)
	if err != nil {
		log.Fatalf("Failed to load HR export: %v", err)
	}
	for _, w := range parsed.Warnings {
		log.WithField("row", w.Row).Warn(w.Message)
	}
	log.Infof("Loaded %d HR records from %s", len(parsed.Records), *hrPath)

	ctx := context.Background()
	dir, closeDir, err := cli.OpenDirectory(ctx, cfg)
	if err != nil {
		log.Fatalf("Directory unavailable: %v", err)
	}
	defer closeDir()

	start := time.Now()
	res, err := reconcile.Run(ctx, dir, parsed.Records, reconcile.Options{
		Range:   dateRange,
		Now:     start,
		Join:    join,
		Disable: *disable,
	})
	if err != nil {
		log.Fatalf("Reconciliation aborted: %v", err)
	}

	res.LogSummary()

	if *reportDir != "" {
		if _, err := report.WriteReconcileReport(*reportDir, res, start); err != nil {
			log.Errorf("Failed to write report: %v", err)
		}
	}

	log.Infof("Finished in %s", time.Since(start))
}
