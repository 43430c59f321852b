package googleclient

import (
	"context"
	"fmt"
	"os"

	"github.com/matthewdavidson09/directory-reconciler/internal/config"
	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"
)

// NewDirectoryService builds an Admin SDK client using a service account with
// domain-wide delegation, impersonating cfg.GoogleImpersonate.
func NewDirectoryService(ctx context.Context, cfg config.Config) (*admin.Service, error) {
	data, err := os.ReadFile(cfg.GoogleCredentials)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account JSON: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, admin.AdminDirectoryUserScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	jwtConfig.Subject = cfg.GoogleImpersonate

	return admin.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
}
