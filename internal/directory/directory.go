// Package directory holds the account shape shared by every directory backend
// and the lookup capability the reconciliation pass runs against.
package directory

import "context"

// Account is one user object as seen by the reconciliation pass.
type Account struct {
	DisplayName string
	Enabled     bool
	DN          string // distinguished name, or org unit path for Google
	Login       string // sAMAccountName or primary email
	EmployeeID  string
	ID          string // objectGUID or Google user id
}

// Directory looks up accounts by exact attribute value and disables them.
// Lookups return an empty slice, not an error, when nothing matches.
type Directory interface {
	FindByDisplayName(ctx context.Context, name string) ([]Account, error)
	FindByEmployeeID(ctx context.Context, id string) ([]Account, error)
	FindBySurname(ctx context.Context, surname string) ([]Account, error)
	Disable(ctx context.Context, acct Account) error
}
