package ldapclient

import (
	"fmt"
	"net"

	"github.com/go-ldap/ldap/v3"
	"github.com/matthewdavidson09/directory-reconciler/internal/config"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

type LDAPClient struct {
	Conn     *ldap.Conn
	BaseDN   string
	PageSize uint32
}

// Connect resolves the LDAP hostname to an IP and returns a bound LDAPClient.
func Connect(cfg config.Config) (*LDAPClient, error) {
	addrs, err := net.LookupHost(cfg.LDAPServer)
	if err != nil || len(addrs) == 0 {
		return nil, fmt.Errorf("DNS lookup failed for %s: %v", cfg.LDAPServer, err)
	}
	ip := addrs[0]

	tools.Log.WithFields(map[string]interface{}{
		"host": cfg.LDAPServer,
		"ip":   ip,
		"port": cfg.LDAPPort,
	}).Debug("Resolved LDAP server IP")

	return ConnectWithIP(cfg, ip)
}

// ConnectWithIP connects to a specific LDAP IP and returns a bound client.
func ConnectWithIP(cfg config.Config, ip string) (*LDAPClient, error) {
	url := fmt.Sprintf("ldap://%s:%s", ip, cfg.LDAPPort)
	tools.Log.WithField("url", url).Debug("Connecting to resolved LDAP IP")

	conn, err := ldap.DialURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP: %w", err)
	}

	if err := conn.Bind(cfg.LDAPUser, cfg.LDAPPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind: %w", err)
	}

	tools.Log.Debug("Successfully bound to LDAP")

	return &LDAPClient{
		Conn:     conn,
		BaseDN:   cfg.BaseDN,
		PageSize: cfg.PageSize,
	}, nil
}

// Close cleans up the connection
func (c *LDAPClient) Close() {
	if c.Conn != nil {
		c.Conn.Close()
		tools.Log.Debug("Closed LDAP connection")
	}
}
