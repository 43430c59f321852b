package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

const (
	BackendLDAP   = "ldap"
	BackendGoogle = "google"
)

type Config struct {
	Backend string

	LDAPServer   string
	LDAPPort     string
	LDAPUser     string
	LDAPPassword string
	BaseDN       string
	PageSize     uint32
	ExcludeOUs   []string

	GoogleCredentials string
	GoogleImpersonate string
	GoogleCustomer    string

	LogDir string
}

// Load reads envFile (if present) into the process environment and builds a Config.
// A missing env file is fine; real environment variables still apply.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Backend:           strings.ToLower(getenv("DIRECTORY_BACKEND", BackendLDAP)),
		LDAPServer:        getenv("LDAP_SERVER", ""),
		LDAPPort:          getenv("LDAP_PORT", "389"),
		LDAPUser:          getenv("LDAP_USER", ""),
		LDAPPassword:      getenv("LDAP_PASSWORD", ""),
		BaseDN:            getenv("BASE_DN", ""),
		ExcludeOUs:        tools.SplitList(os.Getenv("EXCLUDE_OUS"), ";"),
		GoogleCredentials: getenv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleImpersonate: getenv("GOOGLE_IMPERSONATE_USER", ""),
		GoogleCustomer:    getenv("GOOGLE_CUSTOMER", "my_customer"),
		LogDir:            getenv("LOG_DIR", "logs"),
	}

	pageSize, err := strconv.ParseUint(getenv("LDAP_PAGE_SIZE", "500"), 10, 32)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LDAP_PAGE_SIZE: %w", err)
	}
	cfg.PageSize = uint32(pageSize)

	return cfg, cfg.Validate()
}

// Validate checks the settings the selected backend needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendLDAP:
		if c.LDAPServer == "" {
			return errors.New("LDAP_SERVER is not set")
		}
		if c.BaseDN == "" {
			return errors.New("BASE_DN is not set")
		}
	case BackendGoogle:
		if c.GoogleCredentials == "" {
			return errors.New("GOOGLE_APPLICATION_CREDENTIALS env var not set")
		}
		if c.GoogleImpersonate == "" {
			return errors.New("GOOGLE_IMPERSONATE_USER env var not set")
		}
	default:
		return fmt.Errorf("unknown DIRECTORY_BACKEND %q", c.Backend)
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
