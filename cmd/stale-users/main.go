package main

import (
	"flag"
	"time"

	"github.com/matthewdavidson09/directory-reconciler/internal/active_directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/cli"
	"github.com/matthewdavidson09/directory-reconciler/internal/config"
	"github.com/matthewdavidson09/directory-reconciler/internal/ldapclient"
	"github.com/matthewdavidson09/directory-reconciler/internal/report"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

func main() {
	var (
		envFile   = flag.String("env", ".env", "environment file to load")
		days      = flag.Int("days", 90, "report enabled users with no logon in this many days")
		reportDir = flag.String("report", "reports", "directory for the CSV report")
	)
	flag.Parse()

	cfg, runID, closeTranscript, err := cli.Setup(*envFile, "stale-users")
	if err != nil {
		tools.Log.Fatalf("Setup failed: %v", err)
	}
	defer closeTranscript()
	log := tools.Log.WithField("run", runID)

	if cfg.Backend != config.BackendLDAP {
		log.Fatalf("stale-users needs the ldap backend, got %q", cfg.Backend)
	}
	if *days <= 0 {
		log.Fatalf("-days must be positive, got %d", *days)
	}

	client, err := ldapclient.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to LDAP: %v", err)
	}
	defer client.Close()

	now := time.Now()
	cutoff := now.AddDate(0, 0, -*days)

	users, err := active_directory.GetStaleUsers(client, cutoff, cfg.ExcludeOUs)
	if err != nil {
		log.Fatalf("Failed to fetch users: %v", err)
	}
	log.WithField("cutoff", cutoff.Format("2006-01-02")).Infof("Found %d stale enabled accounts", len(users))

	if _, err := report.WriteStaleUsers(*reportDir, users, now); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	log.Infof("Finished in %s", time.Since(now))
}
