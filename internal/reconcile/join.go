package reconcile

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/matthewdavidson09/directory-reconciler/internal/directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/hr"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// JoinStrategy decides which directory accounts belong to an HR record.
type JoinStrategy interface {
	Name() string
	Lookup(ctx context.Context, dir directory.Directory, rec hr.EmployeeRecord) ([]directory.Account, error)
}

// ParseJoinStrategy returns the strategy for name. Empty means display name.
func ParseJoinStrategy(name string) (JoinStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "displayname", "name":
		return DisplayNameJoin{}, nil
	case "employeeid", "id":
		return EmployeeIDJoin{}, nil
	case "normalized", "normalizedname":
		return NormalizedNameJoin{}, nil
	default:
		return nil, fmt.Errorf("unknown join strategy %q", name)
	}
}

// DisplayNameJoin matches displayName against "First Last" exactly.
type DisplayNameJoin struct{}

func (DisplayNameJoin) Name() string { return "displayName" }

func (DisplayNameJoin) Lookup(ctx context.Context, dir directory.Directory, rec hr.EmployeeRecord) ([]directory.Account, error) {
	return dir.FindByDisplayName(ctx, rec.FullName())
}

// EmployeeIDJoin matches employeeID when the HR row carries one and falls
// back to display name otherwise.
type EmployeeIDJoin struct{}

func (EmployeeIDJoin) Name() string { return "employeeID" }

func (EmployeeIDJoin) Lookup(ctx context.Context, dir directory.Directory, rec hr.EmployeeRecord) ([]directory.Account, error) {
	if rec.EmployeeID == "" {
		return DisplayNameJoin{}.Lookup(ctx, dir, rec)
	}
	return dir.FindByEmployeeID(ctx, rec.EmployeeID)
}

// NormalizedNameJoin searches by surname and keeps accounts whose display
// name has the same NameKey as the HR full name. An accented HR surname is
// also searched without its accents. The opposite direction depends on the
// directory's own collation.
type NormalizedNameJoin struct{}

func (NormalizedNameJoin) Name() string { return "normalizedName" }

func (NormalizedNameJoin) Lookup(ctx context.Context, dir directory.Directory, rec hr.EmployeeRecord) ([]directory.Account, error) {
	surname := strings.TrimSpace(rec.LastName)
	candidates, err := dir.FindBySurname(ctx, surname)
	if err != nil {
		return nil, err
	}

	if folded := foldAccents(surname); folded != surname {
		more, err := dir.FindBySurname(ctx, folded)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(candidates))
		for _, acct := range candidates {
			seen[acct.DN] = true
		}
		for _, acct := range more {
			if !seen[acct.DN] {
				seen[acct.DN] = true
				candidates = append(candidates, acct)
			}
		}
	}

	want := NameKey(rec.FullName())
	var matched []directory.Account
	for _, acct := range candidates {
		if NameKey(acct.DisplayName) == want {
			matched = append(matched, acct)
		}
	}
	return matched, nil
}

var foldCaser = cases.Fold()

// NameKey reduces a person's name to "first last": diacritics stripped,
// case folded, punctuation other than hyphens dropped, middle names ignored.
// "Last, First" input is flipped.
func NameKey(name string) string {
	s := foldCaser.String(foldAccents(name))

	if surname, given, ok := strings.Cut(s, ","); ok {
		s = given + " " + surname
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)

	parts := strings.Fields(s)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return parts[0] + " " + parts[len(parts)-1]
	}
}

// foldAccents strips combining marks, so "Núñez" becomes "Nunez".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
