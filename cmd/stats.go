package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtannen/scrivo/internal/infrastructure/sqlite"
	"github.com/dtannen/scrivo/internal/sessions/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show writing session history for a document",
	Long: `Lists recorded writing sessions for a document: when you wrote, for
how long, and how much. Sessions are tracked automatically while the
editor is open.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "number of sessions to show (0 for all)")
	statsCmd.Flags().Bool("totals", false, "print lifetime totals only")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	docPath := defaultDocument
	if len(args) > 0 {
		docPath = args[0]
	}
	docPath, err := filepath.Abs(docPath)
	if err != nil {
		return fmt.Errorf("resolving document path: %w", err)
	}

	dbPath := cfg.Sessions.DBPath
	if dbPath == "" {
		return fmt.Errorf("no sessions database configured")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no sessions recorded yet (database %s does not exist)", dbPath)
	}

	db, err := sqlite.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening sessions database: %w", err)
	}
	defer func() { _ = db.Close() }()

	limit, _ := cmd.Flags().GetInt("limit")
	list, err := db.SessionRepository().ListWithFilter(docPath, domain.ListFilter{Limit: limit})
	if err != nil {
		return fmt.Errorf("listing sessions: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No sessions recorded for %s\n", filepath.Base(docPath))
		return nil
	}

	if totalsOnly, _ := cmd.Flags().GetBool("totals"); totalsOnly {
		printTotals(cmd, docPath, list)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tDURATION\tWORDS\tADDED\tDELETED\tSTATE")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			s.StartedAt().Local().Format("2006-01-02 15:04"),
			formatDuration(s.Duration()),
			s.WordsWritten(),
			s.CharsAdded(),
			s.CharsDeleted(),
			s.State(),
		)
	}
	return w.Flush()
}

func printTotals(cmd *cobra.Command, docPath string, list []*domain.Session) {
	var dur time.Duration
	var words, added, deleted int64
	for _, s := range list {
		dur += s.Duration()
		words += s.WordsWritten()
		added += s.CharsAdded()
		deleted += s.CharsDeleted()
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d sessions\n", filepath.Base(docPath), len(list))
	fmt.Fprintf(out, "  time writing: %s\n", formatDuration(dur))
	fmt.Fprintf(out, "  words written: %d\n", words)
	fmt.Fprintf(out, "  characters: +%d / -%d\n", added, deleted)
}

// formatDuration renders a duration as "1h 23m" or "4m 10s" for short ones.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d >= time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
