package active_directory

import (
	"context"

	"github.com/matthewdavidson09/directory-reconciler/internal/directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/ldapclient"
)

// Directory adapts an LDAP connection to directory.Directory.
type Directory struct {
	client     *ldapclient.LDAPClient
	excludeOUs []string
}

func NewDirectory(client *ldapclient.LDAPClient, excludeOUs []string) *Directory {
	return &Directory{client: client, excludeOUs: excludeOUs}
}

func (d *Directory) FindByDisplayName(ctx context.Context, name string) ([]directory.Account, error) {
	return d.find(ctx, func() ([]ADUser, error) {
		return GetUsersByDisplayName(d.client, name, d.excludeOUs)
	})
}

func (d *Directory) FindByEmployeeID(ctx context.Context, id string) ([]directory.Account, error) {
	return d.find(ctx, func() ([]ADUser, error) {
		return GetUsersByEmployeeID(d.client, id, d.excludeOUs)
	})
}

func (d *Directory) FindBySurname(ctx context.Context, surname string) ([]directory.Account, error) {
	return d.find(ctx, func() ([]ADUser, error) {
		return GetUsersBySurname(d.client, surname, d.excludeOUs)
	})
}

func (d *Directory) Disable(ctx context.Context, acct directory.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := DisableUser(d.client, acct.DN)
	return err
}

func (d *Directory) find(ctx context.Context, search func() ([]ADUser, error)) ([]directory.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users, err := search()
	if err != nil {
		return nil, err
	}
	return ToAccounts(users), nil
}

// ToAccounts maps AD users onto the backend-neutral account shape.
func ToAccounts(users []ADUser) []directory.Account {
	accounts := make([]directory.Account, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, directory.Account{
			DisplayName: u.DisplayName,
			Enabled:     u.Enabled,
			DN:          u.DN,
			Login:       u.SAMAccountName,
			EmployeeID:  u.EmployeeID,
			ID:          u.GUID,
		})
	}
	return accounts
}
