package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/matthewdavidson09/directory-reconciler/internal/active_directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/reconcile"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

var reconcileHeader = []string{
	"Name", "Employee ID", "Status Eff Date", "Classification",
	"Account", "Distinguished Name", "Container", "OU", "Enabled", "Disable Error",
}

var staleHeader = []string{
	"Name", "SAMAccountName", "Email", "Employee ID", "Department",
	"OU", "Last Logon", "Days Inactive", "Distinguished Name",
}

// WriteReconcileReport writes one row per matched account, or one row per
// employee when nothing matched.
func WriteReconcileReport(dir string, res *reconcile.Result, now time.Time) (string, error) {
	var rows [][]string
	for _, out := range res.Outcomes {
		rec := out.Record
		base := []string{rec.FullName(), rec.EmployeeID, rec.StatusEffDate.Format("2006-01-02"), out.Classification.Kind.String()}

		if len(out.Classification.Accounts) == 0 {
			rows = append(rows, append(base, "", "", "", "", "", ""))
			continue
		}
		for _, acct := range out.Classification.Accounts {
			disableErr := ""
			if err := out.DisableErrors[acct.DN]; err != nil {
				disableErr = err.Error()
			}
			rows = append(rows, append(append([]string{}, base...),
				acct.Login,
				acct.DN,
				active_directory.ParentContainer(acct.DN),
				active_directory.OUPath(acct.DN),
				strconv.FormatBool(acct.Enabled),
				disableErr,
			))
		}
	}

	name := fmt.Sprintf("terminated-%s-%s.csv", tools.Slugify(res.Range.String()), now.Format("20060102-150405"))
	return writeCSV(filepath.Join(dir, name), reconcileHeader, rows)
}

// WriteStaleUsers writes the stale account report.
func WriteStaleUsers(dir string, users []active_directory.ADUser, now time.Time) (string, error) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		lastLogon, inactive := "never", ""
		if !u.LastLogon.IsZero() {
			lastLogon = u.LastLogon.Format("2006-01-02")
			inactive = strconv.Itoa(int(now.Sub(u.LastLogon).Hours() / 24))
		}
		rows = append(rows, []string{
			u.DisplayName, u.SAMAccountName, u.Email, u.EmployeeID, u.Department,
			active_directory.OUPath(u.DN), lastLogon, inactive, u.DN,
		})
	}

	name := fmt.Sprintf("stale-users-%s.csv", now.Format("20060102-150405"))
	return writeCSV(filepath.Join(dir, name), staleHeader, rows)
}

func writeCSV(path string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write rows: %w", err)
	}

	tools.Log.WithFields(map[string]interface{}{
		"path": path,
		"rows": len(rows),
	}).Info("Report written")
	return path, nil
}
