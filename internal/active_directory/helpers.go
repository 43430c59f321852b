package active_directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// ─── Normalization ───

func NormalizeDN(dn string) string {
	return strings.ToLower(strings.TrimSpace(dn))
}

// ─── Distinguished names ───

// CommonName returns the value of the leading CN RDN, or "" if dn has none.
func CommonName(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil || len(parsed.RDNs) == 0 {
		return ""
	}
	for _, attr := range parsed.RDNs[0].Attributes {
		if strings.EqualFold(attr.Type, "CN") {
			return attr.Value
		}
	}
	return ""
}

// ParentContainer strips the leading RDN, e.g.
// "CN=Jane Doe,OU=Sales,DC=corp,DC=com" -> "OU=Sales,DC=corp,DC=com".
func ParentContainer(dn string) string {
	dn = strings.TrimSpace(dn)
	for i := 0; i < len(dn); i++ {
		switch dn[i] {
		case '\\':
			i++ // skip escaped character
		case ',':
			return strings.TrimSpace(dn[i+1:])
		}
	}
	return ""
}

// OUPath renders the OU chain of dn top-down, e.g. "Corp/Sales/Remote".
// Domain components and the object's own CN are dropped. Org unit paths
// such as "/Corp/Sales" are returned without their slashes.
func OUPath(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		if strings.HasPrefix(dn, "/") {
			return strings.Trim(dn, "/")
		}
		return ""
	}

	var ous []string
	for _, rdn := range parsed.RDNs {
		for _, attr := range rdn.Attributes {
			if strings.EqualFold(attr.Type, "OU") {
				ous = append(ous, attr.Value)
			}
		}
	}

	for i, j := 0, len(ous)-1; i < j; i, j = i+1, j-1 {
		ous[i], ous[j] = ous[j], ous[i]
	}
	return strings.Join(ous, "/")
}

func shouldExcludeOU(dn string, excludeOUs []string) bool {
	lowerDN := NormalizeDN(dn)
	for _, ou := range excludeOUs {
		if strings.Contains(lowerDN, NormalizeDN(ou)) {
			return true
		}
	}
	return false
}
