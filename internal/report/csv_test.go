package report

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matthewdavidson09/directory-reconciler/internal/active_directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/hr"
	"github.com/matthewdavidson09/directory-reconciler/internal/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteReconcileReport(t *testing.T) {
	jane := hr.EmployeeRecord{FirstName: "Jane", LastName: "Doe", EmployeeID: "1001", StatusEffDate: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)}
	john := hr.EmployeeRecord{FirstName: "John", LastName: "Smith", StatusEffDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)}

	enabledDN := "CN=Jane Doe,OU=Sales,OU=Corp,DC=example,DC=com"
	disabledDN := "CN=Jane Doe,OU=Disabled,DC=example,DC=com"
	res := &reconcile.Result{
		Range: reconcile.LastWeek,
		Outcomes: []reconcile.Outcome{
			{
				Record: jane,
				Classification: reconcile.Classify([]directory.Account{
					{DisplayName: "Jane Doe", Enabled: true, DN: enabledDN, Login: "jdoe"},
					{DisplayName: "Jane Doe", Enabled: false, DN: disabledDN, Login: "jdoe2"},
				}),
				DisableErrors: map[string]error{enabledDN: errors.New("insufficient access rights")},
			},
			{Record: john, Classification: reconcile.Classify(nil)},
		},
	}

	dir := filepath.Join(t.TempDir(), "reports", "nested")
	path, err := WriteReconcileReport(dir, res, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "terminated-lastweek-20261017-080000.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, reconcileHeader, rows[0])
	assert.Equal(t, []string{"Jane Doe", "1001", "2026-10-14", "NeedsDisabling", "jdoe", enabledDN, "OU=Sales,OU=Corp,DC=example,DC=com", "Corp/Sales", "true", "insufficient access rights"}, rows[1])
	assert.Equal(t, []string{"Jane Doe", "1001", "2026-10-14", "NeedsDisabling", "jdoe2", disabledDN, "OU=Disabled,DC=example,DC=com", "Disabled", "false", ""}, rows[2])
	assert.Equal(t, []string{"John Smith", "", "2026-10-12", "NotFound", "", "", "", "", "", ""}, rows[3])
}

func TestWriteReconcileReport_OrgUnitPaths(t *testing.T) {
	res := &reconcile.Result{
		Range: reconcile.All,
		Outcomes: []reconcile.Outcome{{
			Record: hr.EmployeeRecord{FirstName: "Ana", LastName: "Lopez", StatusEffDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
			Classification: reconcile.Classify([]directory.Account{
				{DisplayName: "Ana Lopez", Enabled: true, DN: "/Sales/Remote", Login: "ana@example.com"},
			}),
		}},
	}

	path, err := WriteReconcileReport(t.TempDir(), res, now)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Ana Lopez", "", "2026-10-01", "NeedsDisabling", "ana@example.com", "/Sales/Remote", "", "Sales/Remote", "true", ""}, rows[1])
}

func TestWriteStaleUsers(t *testing.T) {
	users := []active_directory.ADUser{
		{DisplayName: "Pat Lee", SAMAccountName: "plee", DN: "CN=Pat Lee,OU=IT,DC=corp", LastLogon: now.AddDate(0, 0, -120)},
		{DisplayName: "Never Logged", SAMAccountName: "nlogged", DN: "CN=Never Logged,OU=IT,DC=corp"},
	}

	path, err := WriteStaleUsers(t.TempDir(), users, now)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, staleHeader, rows[0])
	assert.Equal(t, "120", rows[1][7])
	assert.Equal(t, "IT", rows[1][5])
	assert.Equal(t, "never", rows[2][6])
	assert.Equal(t, "", rows[2][7])
}
