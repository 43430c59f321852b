package active_directory

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/matthewdavidson09/directory-reconciler/internal/ldapclient"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

// ADUser represents a simplified Active Directory user object
type ADUser struct {
	DN             string
	GUID           string
	DisplayName    string
	Surname        string
	Email          string
	EmployeeID     string
	Department     string
	SAMAccountName string
	Enabled        bool
	UAC            int
	UACFlags       []string
	LastLogon      time.Time // zero when the account never logged on
}

const enabledUsersClause = "(!(userAccountControl:1.2.840.113556.1.4.803:=2))"

var userAttributes = []string{
	"mail", "department", "distinguishedName", "userAccountControl",
	"objectGUID", "sn", "displayName", "employeeID", "sAMAccountName",
	"lastLogonTimestamp",
}

// GetUsersByFilter returns a list of AD users based on the provided filter and criteria
func GetUsersByFilter(
	client *ldapclient.LDAPClient,
	filterMap map[string]string,
	enabledOnly bool,
	requireMail bool,
	excludeOUs []string,
) ([]ADUser, error) {
	entries, err := searchUsers(client, buildUserFilter(filterMap, enabledOnly))
	if err != nil {
		return nil, err
	}

	var users []ADUser
	for _, entry := range entries {
		user := userFromEntry(entry)

		if shouldExcludeOU(user.DN, excludeOUs) {
			continue
		}
		if requireMail && user.Email == "" {
			continue
		}

		users = append(users, user)
	}

	return users, nil
}

// GetUsersByDisplayName returns every user whose displayName equals name.
// Matching is the directory's own equality rule; no normalization is applied here.
func GetUsersByDisplayName(client *ldapclient.LDAPClient, name string, excludeOUs []string) ([]ADUser, error) {
	return GetUsersByFilter(client, map[string]string{"displayName": name}, false, false, excludeOUs)
}

// GetUsersByEmployeeID returns every user carrying the given employeeID.
func GetUsersByEmployeeID(client *ldapclient.LDAPClient, id string, excludeOUs []string) ([]ADUser, error) {
	return GetUsersByFilter(client, map[string]string{"employeeID": id}, false, false, excludeOUs)
}

// GetUsersBySurname returns every user whose sn equals surname.
func GetUsersBySurname(client *ldapclient.LDAPClient, surname string, excludeOUs []string) ([]ADUser, error) {
	return GetUsersByFilter(client, map[string]string{"sn": surname}, false, false, excludeOUs)
}

// GetStaleUsers returns enabled users whose lastLogonTimestamp is older than
// cutoff, plus enabled users that never logged on.
func GetStaleUsers(client *ldapclient.LDAPClient, cutoff time.Time, excludeOUs []string) ([]ADUser, error) {
	filter := fmt.Sprintf("(|(lastLogonTimestamp<=%d)(!(lastLogonTimestamp=*)))", tools.TimeToFileTime(cutoff))
	return GetUsersByFilter(client, map[string]string{filter: ""}, true, false, excludeOUs)
}

// buildUserFilter renders the user filter. Keys are emitted in sorted order so
// the same inputs always produce the same filter string.
func buildUserFilter(filterMap map[string]string, enabledOnly bool) string {
	filterParts := []string{"(objectCategory=person)", "(objectClass=user)"}

	if enabledOnly {
		filterParts = append(filterParts, enabledUsersClause)
	}

	keys := make([]string, 0, len(filterMap))
	for k := range filterMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, attr := range keys {
		value := filterMap[attr]
		switch {
		case strings.HasPrefix(attr, "("):
			// Pass-through prebuilt filter fragments like "(|(a<=1)(!(a=*)))"
			filterParts = append(filterParts, attr)
		case value == "":
			// Assume caller means attribute must not exist
			filterParts = append(filterParts, fmt.Sprintf("(!(%s=*))", ldap.EscapeFilter(attr)))
		default:
			filterParts = append(filterParts, fmt.Sprintf("(%s=%s)", ldap.EscapeFilter(attr), ldap.EscapeFilter(value)))
		}
	}

	return fmt.Sprintf("(&%s)", strings.Join(filterParts, ""))
}

func searchUsers(client *ldapclient.LDAPClient, ldapFilter string) ([]*ldap.Entry, error) {
	searchReq := ldap.NewSearchRequest(
		client.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		ldapFilter,
		userAttributes,
		nil,
	)

	tools.Log.WithField("filter", ldapFilter).Debug("Searching users")

	var (
		result *ldap.SearchResult
		err    error
	)
	if client.PageSize > 0 {
		result, err = client.Conn.SearchWithPaging(searchReq, client.PageSize)
	} else {
		result, err = client.Conn.Search(searchReq)
	}
	if err != nil {
		return nil, fmt.Errorf("LDAP search failed: %w", classifyLDAPError(err))
	}

	return result.Entries, nil
}

func userFromEntry(entry *ldap.Entry) ADUser {
	dn := entry.GetAttributeValue("distinguishedName")
	if dn == "" {
		dn = entry.DN
	}

	uacRaw := entry.GetAttributeValue("userAccountControl")
	uac, _ := tools.ParseUAC(uacRaw)

	user := ADUser{
		DN:             dn,
		GUID:           tools.FormatGUID(entry.GetRawAttributeValue("objectGUID")),
		DisplayName:    entry.GetAttributeValue("displayName"),
		Surname:        entry.GetAttributeValue("sn"),
		Email:          entry.GetAttributeValue("mail"),
		EmployeeID:     entry.GetAttributeValue("employeeID"),
		Department:     entry.GetAttributeValue("department"),
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		Enabled:        tools.IsAccountEnabled(uacRaw),
		UAC:            uac,
	}
	if uacRaw != "" {
		user.UACFlags = tools.DecodeUserAccountControlFlags(uacRaw)
	}
	if t, ok := tools.FileTimeToTime(entry.GetAttributeValue("lastLogonTimestamp")); ok {
		user.LastLogon = t
	}

	return user
}
