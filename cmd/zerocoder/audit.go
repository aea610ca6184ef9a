package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/biswatma/zerocoder/pkg/audit"
	"github.com/biswatma/zerocoder/pkg/audit/retention"
	"github.com/biswatma/zerocoder/pkg/audit/storage"
	"github.com/biswatma/zerocoder/pkg/cli"
	"github.com/biswatma/zerocoder/pkg/config"
)

var auditFlags struct {
	engine string
	status string
	since  string
	until  string
	limit  int
	offset int
	format string

	days int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the generation audit trail",
	Long: `Query and maintain the generation audit trail.

The audit trail is only written when audit.enabled is set. Each record
describes one generation: engine, model, a hash of the prompt, the outcome
and its timing. Prompts and generated documents are never stored.`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List audit records",
	Example: `  # Last day of gemini failures
  zerocoder audit query --engine gemini --status error --since 24h

  # Export a time window as CSV
  zerocoder audit query --since 2026-10-01T00:00:00Z --until 2026-10-02T00:00:00Z --format csv`,
	RunE: runAuditQuery,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit records older than the retention period",
	RunE:  runAuditPrune,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditPruneCmd)

	f := auditQueryCmd.Flags()
	f.StringVar(&auditFlags.engine, "engine", "", "filter by engine")
	f.StringVar(&auditFlags.status, "status", "", "filter by status: success, error, cancelled, invalid")
	f.StringVar(&auditFlags.since, "since", "", "start time (RFC3339) or lookback duration such as 24h")
	f.StringVar(&auditFlags.until, "until", "", "end time (RFC3339) or lookback duration")
	f.IntVar(&auditFlags.limit, "limit", 100, "maximum number of records")
	f.IntVar(&auditFlags.offset, "offset", 0, "number of records to skip")
	f.StringVar(&auditFlags.format, "format", "text", "output format: text, json, csv")

	auditPruneCmd.Flags().IntVar(&auditFlags.days, "days", 0, "retention in days (defaults to audit.retention.days)")
}

func openAuditStorage() (audit.Storage, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Audit.Enabled {
		return nil, nil, cli.NewConfigError("audit.enabled", "audit trail is disabled")
	}
	st, err := storage.Open(cfg.Audit)
	if err != nil {
		return nil, nil, cli.NewCommandError("audit", err)
	}
	return st, cfg, nil
}

func runAuditQuery(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(auditFlags.format)
	if err != nil {
		return err
	}

	now := time.Now()
	q := &audit.Query{
		Engine: strings.ToLower(auditFlags.engine),
		Status: auditFlags.status,
		Limit:  auditFlags.limit,
		Offset: auditFlags.offset,
	}
	if q.Since, err = parseTimeFlag(auditFlags.since, now); err != nil {
		return fmt.Errorf("invalid --since: %w", err)
	}
	if q.Until, err = parseTimeFlag(auditFlags.until, now); err != nil {
		return fmt.Errorf("invalid --until: %w", err)
	}

	st, _, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.Query(cmd.Context(), q)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), records)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), recordTable(records))
}

func runAuditPrune(cmd *cobra.Command, args []string) error {
	st, cfg, err := openAuditStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	days := auditFlags.days
	if days == 0 {
		days = cfg.Audit.Retention.Days
	}
	if days <= 0 {
		return cli.NewConfigError("audit.retention.days", "retention period must be positive")
	}

	deleted, err := retention.NewPruner(st, days).Prune(cmd.Context())
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d records older than %d days\n", deleted, days)
	return nil
}

// parseTimeFlag accepts an RFC3339 timestamp or a duration counted back from
// now. An empty value yields the zero time.
func parseTimeFlag(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}
	return time.Parse(time.RFC3339, value)
}

// recordTable renders audit records as rows.
type recordTable []*audit.Record

func (t recordTable) Header() []string {
	return []string{"STARTED", "ENGINE", "MODEL", "STATUS", "CHUNKS", "BYTES", "DURATION", "ERROR"}
}

func (t recordTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.StartedAt.UTC().Format(time.RFC3339),
			r.Engine,
			r.Model,
			r.Status,
			strconv.Itoa(r.Chunks),
			strconv.FormatInt(r.ResponseBytes, 10),
			r.Duration.Round(time.Millisecond).String(),
			r.ErrorMessage,
		})
	}
	return rows
}
