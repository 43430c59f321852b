package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matthewdavidson09/directory-reconciler/internal/directory"
	"github.com/matthewdavidson09/directory-reconciler/internal/hr"
	"github.com/matthewdavidson09/directory-reconciler/tools"
)

var ErrDirectoryUnavailable = errors.New("directory unavailable")

type Options struct {
	Range DateRange
	Now   time.Time
	Join  JoinStrategy // nil means DisplayNameJoin
	// Disable writes changes. When false the pass only reports.
	Disable bool
}

// Outcome is the classification of one terminated employee.
type Outcome struct {
	Record         hr.EmployeeRecord
	Classification Classification
	// Remediation errors for enabled accounts, keyed by account DN.
	DisableErrors map[string]error
}

// DataIssue is a terminated row that could not be placed in the window.
type DataIssue struct {
	Row  int
	Name string
	Err  error
}

// Result is everything one pass produced. Counters are per account for
// NeedsDisabling and AlreadyDisabled, per employee for NotFound.
type Result struct {
	Range           DateRange
	Join            string
	Terminated      int // terminated rows in the file, before the window
	Processed       int
	AlreadyDisabled int
	NeedsDisabling  int
	NotFound        int

	Remediated        int
	RemediationFailed int

	Outcomes   []Outcome
	DataIssues []DataIssue
}

// Run reconciles terminated HR records against dir. A lookup failure aborts
// the pass and no Result is returned. Remediation only starts after every
// record has been classified, and per-account disable failures do not abort.
func Run(ctx context.Context, dir directory.Directory, records []hr.EmployeeRecord, opts Options) (*Result, error) {
	join := opts.Join
	if join == nil {
		join = DisplayNameJoin{}
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	res := &Result{Range: opts.Range, Join: join.Name()}

	var dated []hr.EmployeeRecord
	for _, rec := range records {
		if !rec.IsTerminated() {
			continue
		}
		res.Terminated++
		if !rec.HasDate() {
			res.DataIssues = append(res.DataIssues, DataIssue{Row: rec.Row, Name: rec.FullName(), Err: rec.DateErr})
			tools.Log.WithFields(map[string]interface{}{
				"row":  rec.Row,
				"name": rec.FullName(),
			}).WithError(rec.DateErr).Warn("Skipping terminated record with unreadable effective date")
			continue
		}
		dated = append(dated, rec)
	}

	window := FilterByWindow(dated, opts.Range, now)
	tools.Log.WithFields(map[string]interface{}{
		"range":      opts.Range.String(),
		"terminated": res.Terminated,
		"in_window":  len(window),
		"join":       join.Name(),
	}).Info("Reconciling terminated employees")

	for _, rec := range window {
		accounts, err := join.Lookup(ctx, dir, rec)
		if err != nil {
			return nil, fmt.Errorf("%w: lookup for %q failed: %w", ErrDirectoryUnavailable, rec.FullName(), err)
		}

		c := Classify(accounts)
		res.add(rec, c)
		logOutcome(rec, c)
	}

	if opts.Disable {
		remediate(ctx, dir, res)
	} else if res.NeedsDisabling > 0 {
		tools.Log.Infof("Dry run: %d account(s) left enabled, pass -disable to disable them", res.NeedsDisabling)
	}

	return res, nil
}

func (r *Result) add(rec hr.EmployeeRecord, c Classification) {
	r.Processed++
	switch c.Kind {
	case NeedsDisabling:
		r.NeedsDisabling += len(c.Enabled)
	case AlreadyDisabled:
		r.AlreadyDisabled += len(c.Disabled)
	default:
		r.NotFound++
	}
	r.Outcomes = append(r.Outcomes, Outcome{Record: rec, Classification: c})
}

func logOutcome(rec hr.EmployeeRecord, c Classification) {
	entry := tools.Log.WithFields(map[string]interface{}{
		"name":      rec.FullName(),
		"effective": rec.StatusEffDate.Format("2006-01-02"),
		"result":    c.Kind.String(),
		"matches":   len(c.Accounts),
	})

	if c.Ambiguous() {
		dns := make([]string, 0, len(c.Accounts))
		for _, a := range c.Accounts {
			dns = append(dns, a.DN)
		}
		entry.WithField("dns", strings.Join(dns, "; ")).Warn("Multiple accounts share this name")
	}

	switch c.Kind {
	case NeedsDisabling:
		entry.Info("Terminated employee still has an enabled account")
	case AlreadyDisabled:
		entry.Debug("Account already disabled")
	default:
		entry.Info("No directory account found")
	}
}

func remediate(ctx context.Context, dir directory.Directory, res *Result) {
	for i := range res.Outcomes {
		out := &res.Outcomes[i]
		if out.Classification.Kind != NeedsDisabling {
			continue
		}
		for _, acct := range out.Classification.Enabled {
			if err := dir.Disable(ctx, acct); err != nil {
				res.RemediationFailed++
				if out.DisableErrors == nil {
					out.DisableErrors = make(map[string]error)
				}
				out.DisableErrors[acct.DN] = err
				tools.Log.WithError(err).Errorf("Failed to disable %s", acct.DN)
				continue
			}
			res.Remediated++
			tools.Log.WithField("dn", acct.DN).Infof("Disabled account for %s", out.Record.FullName())
		}
	}
}

// Summary renders the end-of-run report.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Termination reconciliation (%s, join=%s)\n", r.Range, r.Join)
	fmt.Fprintf(&b, "  Terminated records processed: %d\n", r.Processed)
	fmt.Fprintf(&b, "  Already disabled:             %d\n", r.AlreadyDisabled)
	fmt.Fprintf(&b, "  Needs disabling:              %d\n", r.NeedsDisabling)
	fmt.Fprintf(&b, "  Not found:                    %d\n", r.NotFound)
	if len(r.DataIssues) > 0 {
		fmt.Fprintf(&b, "  Unreadable effective dates:   %d\n", len(r.DataIssues))
	}
	if r.Remediated > 0 || r.RemediationFailed > 0 {
		fmt.Fprintf(&b, "  Disabled this run:            %d\n", r.Remediated)
		fmt.Fprintf(&b, "  Disable failures:             %d\n", r.RemediationFailed)
	}
	return b.String()
}

// LogSummary writes the counters and any data issues to the log.
func (r *Result) LogSummary() {
	for _, issue := range r.DataIssues {
		tools.Log.WithFields(map[string]interface{}{
			"row":  issue.Row,
			"name": issue.Name,
		}).WithError(issue.Err).Warn("Data quality issue")
	}
	tools.LogReconcileSummary(r.Range.String(), r.Processed, r.AlreadyDisabled, r.NeedsDisabling, r.NotFound)
	for _, line := range strings.Split(strings.TrimRight(r.Summary(), "\n"), "\n") {
		tools.Log.Info(line)
	}
}
