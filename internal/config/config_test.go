package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"DIRECTORY_BACKEND", "LDAP_SERVER", "LDAP_PORT", "LDAP_USER", "LDAP_PASSWORD",
		"BASE_DN", "LDAP_PAGE_SIZE", "EXCLUDE_OUS", "GOOGLE_APPLICATION_CREDENTIALS",
		"GOOGLE_IMPERSONATE_USER", "GOOGLE_CUSTOMER", "LOG_DIR",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_LDAPDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LDAP_SERVER", "dc01.corp.example.com")
	t.Setenv("BASE_DN", "DC=corp,DC=example,DC=com")
	t.Setenv("EXCLUDE_OUS", "OU=External Users; OU=Archived Users ;")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, BackendLDAP, cfg.Backend)
	assert.Equal(t, "389", cfg.LDAPPort)
	assert.Equal(t, uint32(500), cfg.PageSize)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, []string{"OU=External Users", "OU=Archived Users"}, cfg.ExcludeOUs)
}

func TestFromEnv_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		ok   bool
	}{
		{"ldap missing server", map[string]string{"BASE_DN": "DC=x"}, false},
		{"ldap missing base dn", map[string]string{"LDAP_SERVER": "dc"}, false},
		{"google missing subject", map[string]string{"DIRECTORY_BACKEND": "google", "GOOGLE_APPLICATION_CREDENTIALS": "sa.json"}, false},
		{"google complete", map[string]string{"DIRECTORY_BACKEND": "Google", "GOOGLE_APPLICATION_CREDENTIALS": "sa.json", "GOOGLE_IMPERSONATE_USER": "admin@example.com"}, true},
		{"unknown backend", map[string]string{"DIRECTORY_BACKEND": "okta"}, false},
		{"bad page size", map[string]string{"LDAP_SERVER": "dc", "BASE_DN": "DC=x", "LDAP_PAGE_SIZE": "lots"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set, empty or not.
	os.Unsetenv("LDAP_SERVER")
	os.Unsetenv("BASE_DN")
	t.Cleanup(func() {
		os.Unsetenv("LDAP_SERVER")
		os.Unsetenv("BASE_DN")
	})

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LDAP_SERVER=dc02\nBASE_DN=DC=corp,DC=example\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dc02", cfg.LDAPServer)
	assert.Equal(t, "DC=corp,DC=example", cfg.BaseDN)
}

func TestLoad_MissingFileTolerated(t *testing.T) {
	clearEnv(t)
	t.Setenv("LDAP_SERVER", "dc")
	t.Setenv("BASE_DN", "DC=x")

	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}
