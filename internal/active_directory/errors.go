package active_directory

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAccessDenied    = errors.New("insufficient access rights")
	ErrLDAPUnavailable = errors.New("LDAP server unavailable")
)

// classifyLDAPError tags well-known LDAP result codes with a sentinel so
// callers can use errors.Is without importing go-ldap.
func classifyLDAPError(err error) error {
	if err == nil {
		return nil
	}

	var ldapErr *ldap.Error
	if !errors.As(err, &ldapErr) {
		return err
	}

	switch ldapErr.ResultCode {
	case ldap.LDAPResultNoSuchObject:
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	case ldap.LDAPResultInsufficientAccessRights:
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	case ldap.ErrorNetwork, ldap.LDAPResultUnavailable, ldap.LDAPResultBusy, ldap.LDAPResultServerDown:
		return fmt.Errorf("%w: %w", ErrLDAPUnavailable, err)
	default:
		return err
	}
}
