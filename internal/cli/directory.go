// Package cli holds setup shared by the commands under cmd/.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matthewdavidson09/directory-reconciler/internal/active_directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/config"
	"github.com/matthewdavidson09/directory-reconciler/internal/directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/googleclient"
	"github.com/matthewdavidson09/directory-reconciler/internal/gworkspace"
	"github.com/matthewdavidson09/directory-reconciler/internal/ldapclient"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

// Setup loads config, initializes logging, and starts the run transcript.
// The returned func closes the transcript.
func Setup(envFile, name string) (config.Config, string, func(), error) {
	cfg, err := config.Load(envFile)
	tools.InitLogger()
	if err != nil {
		return config.Config{}, "", nil, fmt.Errorf("invalid configuration: %w", err)
	}

	runID := uuid.NewString()
	path, closeTranscript, err := tools.StartTranscript(cfg.LogDir, name, time.Now())
	if err != nil {
		return config.Config{}, "", nil, err
	}

	tools.Log.WithFields(map[string]interface{}{
		"run":        runID,
		"backend":    cfg.Backend,
		"transcript": path,
	}).Infof("Starting %s", name)

	return cfg, runID, closeTranscript, nil
}

// OpenDirectory connects to the configured backend.
func OpenDirectory(ctx context.Context, cfg config.Config) (directory.Directory, func(), error) {
	switch cfg.Backend {
	case config.BackendGoogle:
		svc, err := googleclient.NewDirectoryService(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Google Directory client: %w", err)
		}
		return gworkspace.NewDirectory(svc, cfg.GoogleCustomer), func() {}, nil
	default:
		client, err := ldapclient.Connect(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to LDAP: %w", err)
		}
		return active_directory.NewDirectory(client, cfg.ExcludeOUs), client.Close, nil
	}
}
