package active_directory

import (
	"fmt"
	"strconv"

	"github.com/go-ldap/ldap/v3"
	"github.com/matthewdavidson09/directory-reconciler/internal/ldapclient"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

// DisableUser sets ACCOUNTDISABLE on the user at userDN. Already-disabled
// accounts are left untouched. Returns whether a change was written.
func DisableUser(client *ldapclient.LDAPClient, userDN string) (bool, error) {
	searchReq := ldap.NewSearchRequest(
		userDN,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, 0, false,
		"(objectClass=user)",
		[]string{"userAccountControl"},
		nil,
	)

	result, err := client.Conn.Search(searchReq)
	if err != nil {
		return false, fmt.Errorf("failed to read userAccountControl: %w", classifyLDAPError(err))
	}
	if len(result.Entries) == 0 {
		return false, fmt.Errorf("%w at DN: %s", ErrUserNotFound, userDN)
	}

	raw := result.Entries[0].GetAttributeValue("userAccountControl")
	current, ok := tools.ParseUAC(raw)
	if !ok {
		return false, fmt.Errorf("unreadable userAccountControl %q on %s", raw, userDN)
	}
	if !tools.IsAccountEnabled(raw) {
		tools.Log.WithFields(map[string]interface{}{
			"dn": userDN,
			"cn": CommonName(userDN),
		}).Debug("Account already disabled")
		return false, nil
	}

	modReq := ldap.NewModifyRequest(userDN, nil)
	modReq.Replace("userAccountControl", []string{strconv.Itoa(tools.DisableUAC(current))})

	if err := client.Conn.Modify(modReq); err != nil {
		return false, fmt.Errorf("failed to disable %s: %w", userDN, classifyLDAPError(err))
	}

	tools.Log.WithFields(map[string]interface{}{
		"dn":    userDN,
		"cn":    CommonName(userDN),
		"flags": tools.DecodeUserAccountControlFlags(strconv.Itoa(tools.DisableUAC(current))),
	}).Info("Account disabled")
	return true, nil
}
