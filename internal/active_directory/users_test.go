package active_directory

import (
	"errors"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/matthewdavidson09/directory-reconciler/tools"
	"github.com/stretchr/testify/assert"
)

func TestBuildUserFilter(t *testing.T) {
	tests := []struct {
		name        string
		filterMap   map[string]string
		enabledOnly bool
		want        string
	}{
		{
			name: "display name exact",
			filterMap: map[string]string{
				"displayName": "Jane Doe",
			},
			want: "(&(objectCategory=person)(objectClass=user)(displayName=Jane Doe))",
		},
		{
			name: "escapes filter metacharacters",
			filterMap: map[string]string{
				"displayName": "Doe (Contractor) *",
			},
			want: `(&(objectCategory=person)(objectClass=user)(displayName=Doe \28Contractor\29 \2a))`,
		},
		{
			name:        "enabled only with absent attribute",
			filterMap:   map[string]string{"mail": ""},
			enabledOnly: true,
			want:        "(&(objectCategory=person)(objectClass=user)" + enabledUsersClause + "(!(mail=*)))",
		},
		{
			name: "raw fragment passes through and keys are sorted",
			filterMap: map[string]string{
				"(lastLogonTimestamp<=5)": "",
				"employeeID":              "1001",
			},
			want: "(&(objectCategory=person)(objectClass=user)(lastLogonTimestamp<=5)(employeeID=1001))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildUserFilter(tt.filterMap, tt.enabledOnly))
		})
	}
}

func TestUserFromEntry(t *testing.T) {
	lastLogon := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	guid := string([]byte{0x78, 0x56, 0x34, 0x12, 0xbc, 0x9a, 0xf0, 0xde, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	entry := ldap.NewEntry("CN=Jane Doe,OU=Sales,DC=corp,DC=example,DC=com", map[string][]string{
		"displayName":        {"Jane Doe"},
		"sAMAccountName":     {"jdoe"},
		"employeeID":         {"1001"},
		"userAccountControl": {"514"},
		"objectGUID":         {guid},
		"lastLogonTimestamp": {formatInt(tools.TimeToFileTime(lastLogon))},
	})

	user := userFromEntry(entry)

	assert.Equal(t, "CN=Jane Doe,OU=Sales,DC=corp,DC=example,DC=com", user.DN, "falls back to entry DN")
	assert.Equal(t, "Jane Doe", user.DisplayName)
	assert.Equal(t, "jdoe", user.SAMAccountName)
	assert.False(t, user.Enabled)
	assert.Equal(t, 514, user.UAC)
	assert.Equal(t, []string{"ACCOUNTDISABLE", "NORMAL_ACCOUNT"}, user.UACFlags)
	assert.Equal(t, "12345678-9abc-def0-0102-030405060708", user.GUID)
	assert.True(t, user.LastLogon.Equal(lastLogon))
}

func TestUserFromEntry_EnabledWithoutLogon(t *testing.T) {
	entry := ldap.NewEntry("CN=John Smith,DC=corp", map[string][]string{
		"userAccountControl": {"512"},
		"distinguishedName":  {"CN=John Smith,OU=IT,DC=corp"},
	})

	user := userFromEntry(entry)

	assert.True(t, user.Enabled)
	assert.Equal(t, "CN=John Smith,OU=IT,DC=corp", user.DN)
	assert.True(t, user.LastLogon.IsZero())
}

func TestToAccounts(t *testing.T) {
	accounts := ToAccounts([]ADUser{
		{DisplayName: "Jane Doe", DN: "CN=Jane Doe,DC=corp", SAMAccountName: "jdoe", Enabled: true, GUID: "g1"},
	})

	if assert.Len(t, accounts, 1) {
		assert.Equal(t, "Jane Doe", accounts[0].DisplayName)
		assert.Equal(t, "jdoe", accounts[0].Login)
		assert.Equal(t, "g1", accounts[0].ID)
		assert.True(t, accounts[0].Enabled)
	}
}

func TestClassifyLDAPError(t *testing.T) {
	noSuch := ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("no such object"))
	denied := ldap.NewError(ldap.LDAPResultInsufficientAccessRights, errors.New("denied"))
	network := ldap.NewError(ldap.ErrorNetwork, errors.New("connection reset"))
	other := errors.New("boom")

	assert.ErrorIs(t, classifyLDAPError(noSuch), ErrUserNotFound)
	assert.ErrorIs(t, classifyLDAPError(denied), ErrAccessDenied)
	assert.ErrorIs(t, classifyLDAPError(network), ErrLDAPUnavailable)
	assert.Equal(t, other, classifyLDAPError(other))
	assert.NoError(t, classifyLDAPError(nil))
}
