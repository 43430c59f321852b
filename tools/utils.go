package tools

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const uacAccountDisable = 0x0002

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// FormatGUID converts a raw objectGUID []byte into a standard Microsoft GUID string
func FormatGUID(b []byte) string {
	if len(b) != 16 {
		return ""
	}
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	)
}

// ParseUAC returns the numeric userAccountControl value, or ok=false when
// the attribute is missing or garbage.
func ParseUAC(uac string) (int, bool) {
	uac = strings.TrimSpace(uac)
	if uac == "" {
		return 0, false
	}
	val, err := strconv.Atoi(uac)
	if err != nil {
		return 0, false
	}
	return val, true
}

// IsAccountEnabled reports whether the ACCOUNTDISABLE bit is clear.
// Unknown values are treated as enabled so they surface for review.
func IsAccountEnabled(uac string) bool {
	val, ok := ParseUAC(uac)
	if !ok {
		return true
	}
	return val&uacAccountDisable == 0
}

// DisableUAC sets the ACCOUNTDISABLE bit.
func DisableUAC(val int) int {
	return val | uacAccountDisable
}

var uacFlags = map[int]string{
	0x0001:     "SCRIPT",
	0x0002:     "ACCOUNTDISABLE",
	0x0008:     "HOMEDIR_REQUIRED",
	0x0010:     "LOCKOUT",
	0x0020:     "PASSWD_NOTREQD",
	0x0040:     "PASSWD_CANT_CHANGE", // Not reliable on modern systems
	0x0080:     "ENCRYPTED_TEXT_PASSWORD_ALLOWED",
	0x0100:     "TEMP_DUPLICATE_ACCOUNT",
	0x0200:     "NORMAL_ACCOUNT",
	0x0800:     "INTERDOMAIN_TRUST_ACCOUNT",
	0x1000:     "WORKSTATION_TRUST_ACCOUNT",
	0x2000:     "SERVER_TRUST_ACCOUNT",
	0x10000:    "DONT_EXPIRE_PASSWORD",
	0x20000:    "MNS_LOGON_ACCOUNT",
	0x40000:    "SMARTCARD_REQUIRED",
	0x80000:    "TRUSTED_FOR_DELEGATION",
	0x100000:   "NOT_DELEGATED",
	0x200000:   "USE_DES_KEY_ONLY",
	0x400000:   "DONT_REQ_PREAUTH",
	0x800000:   "PASSWORD_EXPIRED",
	0x1000000:  "TRUSTED_TO_AUTH_FOR_DELEGATION",
	0x04000000: "PARTIAL_SECRETS_ACCOUNT",
}

// DecodeUserAccountControlFlags returns the flag names set in uac, ordered by bit.
func DecodeUserAccountControlFlags(uac string) []string {
	val, ok := ParseUAC(uac)
	if !ok {
		return []string{"invalid"}
	}

	bits := make([]int, 0, len(uacFlags))
	for bit := range uacFlags {
		bits = append(bits, bit)
	}
	sort.Ints(bits)

	var activeFlags []string
	for _, bit := range bits {
		if val&bit != 0 {
			activeFlags = append(activeFlags, uacFlags[bit])
		}
	}

	return activeFlags
}

// 100ns intervals between 1601-01-01 and 1970-01-01.
const fileTimeEpochOffset = 116444736000000000

// FileTimeToTime converts an AD FILETIME string (lastLogonTimestamp, pwdLastSet)
// to UTC. Zero, empty, or the "never" sentinel return ok=false.
func FileTimeToTime(ft string) (time.Time, bool) {
	val, err := strconv.ParseInt(strings.TrimSpace(ft), 10, 64)
	if err != nil || val <= 0 || val == 0x7FFFFFFFFFFFFFFF {
		return time.Time{}, false
	}
	unix100ns := val - fileTimeEpochOffset
	return time.Unix(0, unix100ns*100).UTC(), true
}

// TimeToFileTime is the inverse of FileTimeToTime, for building LDAP filters.
func TimeToFileTime(t time.Time) int64 {
	return t.UTC().UnixNano()/100 + fileTimeEpochOffset
}

// Slugify converts names like "Human Resources" to "human-resources"
func Slugify(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))

	// Replace spaces and underscores with dashes
	input = strings.ReplaceAll(input, " ", "-")
	input = strings.ReplaceAll(input, "_", "-")

	input = slugInvalid.ReplaceAllString(input, "")
	input = slugDashes.ReplaceAllString(input, "-")

	return strings.Trim(input, "-")
}

// SplitList splits a delimited setting, dropping blanks.
func SplitList(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
