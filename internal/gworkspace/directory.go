package gworkspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/matthewdavidson09/directory-reconciler/internal/directory"
	"github.com/matthewdavidson09/directory-reconciler/tools"
	admin "google.golang.org/api/admin/directory/v1"
)

// Directory adapts the Admin SDK users API to directory.Directory.
// Suspended or archived users count as disabled.
type Directory struct {
	svc      *admin.Service
	customer string
}

func NewDirectory(svc *admin.Service, customer string) *Directory {
	return &Directory{svc: svc, customer: customer}
}

func (d *Directory) FindByDisplayName(ctx context.Context, name string) ([]directory.Account, error) {
	users, err := d.list(ctx, fieldQuery("name", name))
	if err != nil {
		return nil, err
	}
	// name: search is looser than equality; keep exact full-name matches only.
	var out []directory.Account
	for _, u := range users {
		if acct := userToAccount(u); acct.DisplayName == name {
			out = append(out, acct)
		}
	}
	return out, nil
}

func (d *Directory) FindByEmployeeID(ctx context.Context, id string) ([]directory.Account, error) {
	users, err := d.list(ctx, fmt.Sprintf("externalId='%s'", escapeQuery(id)))
	if err != nil {
		return nil, err
	}
	out := make([]directory.Account, 0, len(users))
	for _, u := range users {
		acct := userToAccount(u)
		acct.EmployeeID = id
		out = append(out, acct)
	}
	return out, nil
}

func (d *Directory) FindBySurname(ctx context.Context, surname string) ([]directory.Account, error) {
	users, err := d.list(ctx, fieldQuery("familyName", surname))
	if err != nil {
		return nil, err
	}
	out := make([]directory.Account, 0, len(users))
	for _, u := range users {
		out = append(out, userToAccount(u))
	}
	return out, nil
}

// Disable suspends the user.
func (d *Directory) Disable(ctx context.Context, acct directory.Account) error {
	key := acct.ID
	if key == "" {
		key = acct.Login
	}
	if _, err := d.svc.Users.Update(key, &admin.User{Suspended: true}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to suspend %s: %w", acct.Login, err)
	}
	tools.Log.WithField("user", acct.Login).Info("Google user suspended")
	return nil
}

func (d *Directory) list(ctx context.Context, query string) ([]*admin.User, error) {
	tools.Log.WithField("query", query).Debug("Searching Google users")

	var users []*admin.User
	err := d.svc.Users.List().Customer(d.customer).Query(query).Pages(ctx, func(page *admin.Users) error {
		users = append(users, page.Users...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("google user search %q failed: %w", query, err)
	}
	return users, nil
}

func fieldQuery(field, value string) string {
	return fmt.Sprintf("%s:'%s'", field, escapeQuery(value))
}

func escapeQuery(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}

func userToAccount(u *admin.User) directory.Account {
	acct := directory.Account{
		Enabled: !u.Suspended && !u.Archived,
		DN:      u.OrgUnitPath,
		Login:   u.PrimaryEmail,
		ID:      u.Id,
	}
	if u.Name != nil {
		acct.DisplayName = u.Name.FullName
		if acct.DisplayName == "" {
			acct.DisplayName = strings.TrimSpace(u.Name.GivenName + " " + u.Name.FamilyName)
		}
	}
	return acct
}
