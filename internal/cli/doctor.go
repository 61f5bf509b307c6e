package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/dutybot/internal/config"
	"github.com/example/dutybot/internal/db"
	"github.com/example/dutybot/internal/models"
	"github.com/example/dutybot/internal/ports/secondary"
	"github.com/example/dutybot/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for installation validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the bot's configuration and data",
		Long: `Health check for a dutybot installation.

Validates:
- configuration file (levels, categories, owner)
- bot token presence
- data file readability and channel setup
- ledger schema version
- ledger SC totals against stored balances

Examples:
  dutybot doctor              # Run full health check
  dutybot doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			results := []CheckResult{
				checkSettings(wire.Settings()),
				checkToken(wire.Env()),
			}

			doc, err := wire.Store().Load(ctx)
			if err != nil {
				results = append(results, CheckResult{Name: "Data file", Status: "✗", Details: "  " + err.Error()})
			} else {
				results = append(results, CheckResult{Name: "Data file", Status: "✓"})
				results = append(results, checkChannels(doc))
			}

			version, err := db.SchemaVersion(wire.Database())
			results = append(results, checkSchema(version, err))
			if doc != nil {
				results = append(results, checkLedgerTotals(ctx, doc, wire.Ledger()))
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printResults(cmd, results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("installation validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func printResults(cmd *cobra.Command, results []CheckResult, hasErrors bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(out, "\n⚠ Issues found.")
	} else {
		fmt.Fprintln(out, "All checks passed.")
	}
}

// checkSettings validates the level table and category list.
func checkSettings(s *config.Settings) CheckResult {
	if _, err := s.Levels(); err != nil {
		return CheckResult{Name: "Configuration", Status: "✗", Details: "  " + err.Error()}
	}
	var problems []string
	if len(s.MissionCategories) == 0 {
		problems = append(problems, "  no mission_categories; built-in defaults apply")
	}
	if s.OwnerID == "" {
		problems = append(problems, "  no owner_id; only ranked roles can approve missions")
	}
	if len(problems) > 0 {
		return CheckResult{Name: "Configuration", Status: "⚠", Details: strings.Join(problems, "\n")}
	}
	return CheckResult{Name: "Configuration", Status: "✓"}
}

func checkToken(e *config.Env) CheckResult {
	if _, err := e.ResolveToken(); err != nil {
		return CheckResult{Name: "Bot token", Status: "⚠", Details: "  " + err.Error() + "\n  'dutybot serve' will refuse to start"}
	}
	return CheckResult{Name: "Bot token", Status: "✓"}
}

// checkChannels warns about channel purposes with no mapping.
func checkChannels(doc *models.Document) CheckResult {
	var missing []string
	for _, purpose := range models.ChannelPurposes {
		if doc.Channels[purpose] == "" {
			missing = append(missing, purpose)
		}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:    "Channels",
			Status:  "⚠",
			Details: "  not configured: " + strings.Join(missing, ", ") + "\n  set with 'dutybot channel set' or /setchannel",
		}
	}
	return CheckResult{Name: "Channels", Status: "✓"}
}

func checkSchema(version int, err error) CheckResult {
	if err != nil {
		return CheckResult{Name: "Ledger schema", Status: "✗", Details: "  " + err.Error()}
	}
	if version != db.CurrentVersion() {
		return CheckResult{
			Name:    "Ledger schema",
			Status:  "✗",
			Details: fmt.Sprintf("  schema version %d, expected %d", version, db.CurrentVersion()),
		}
	}
	return CheckResult{Name: "Ledger schema", Status: "✓"}
}

// checkLedgerTotals compares each user's stored SC with the SC the ledger
// recorded. Balances that predate the ledger show up as drift.
func checkLedgerTotals(ctx context.Context, doc *models.Document, ledger secondary.LedgerRepository) CheckResult {
	ids := make([]string, 0, len(doc.Users))
	for id := range doc.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var drift []string
	for _, id := range ids {
		sc, _, err := ledger.Totals(ctx, id)
		if err != nil {
			return CheckResult{Name: "Ledger totals", Status: "✗", Details: "  " + err.Error()}
		}
		if u := doc.Users[id]; u != nil && u.SC != sc {
			drift = append(drift, fmt.Sprintf("  %s: balance %d SC, ledger %d SC", id, u.SC, sc))
		}
	}
	if len(drift) > 0 {
		return CheckResult{Name: "Ledger totals", Status: "⚠", Details: strings.Join(drift, "\n")}
	}
	return CheckResult{Name: "Ledger totals", Status: "✓"}
}
