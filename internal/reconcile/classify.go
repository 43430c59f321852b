package reconcile

import "github.com/matthewdavidson09/directory-reconciler/internal/directory"

// Kind is the outcome of matching one terminated employee.
type Kind int

const (
	NotFound Kind = iota
	NeedsDisabling
	AlreadyDisabled
)

func (k Kind) String() string {
	switch k {
	case NeedsDisabling:
		return "NeedsDisabling"
	case AlreadyDisabled:
		return "AlreadyDisabled"
	default:
		return "NotFound"
	}
}

// Classification carries the kind plus the accounts that led to it.
type Classification struct {
	Kind     Kind
	Accounts []directory.Account // every match, enabled or not
	Enabled  []directory.Account
	Disabled []directory.Account
}

// Classify applies the rules in order: any enabled account means the employee
// still needs disabling, even if disabled accounts share the name; otherwise
// any disabled account means already disabled; otherwise not found.
func Classify(accounts []directory.Account) Classification {
	c := Classification{Kind: NotFound, Accounts: accounts}
	for _, acct := range accounts {
		if acct.Enabled {
			c.Enabled = append(c.Enabled, acct)
		} else {
			c.Disabled = append(c.Disabled, acct)
		}
	}

	switch {
	case len(c.Enabled) > 0:
		c.Kind = NeedsDisabling
	case len(c.Disabled) > 0:
		c.Kind = AlreadyDisabled
	}
	return c
}

// Ambiguous reports whether more than one account matched.
func (c Classification) Ambiguous() bool {
	return len(c.Accounts) > 1
}
