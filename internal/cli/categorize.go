package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/theme"
)

var (
	categorizeJSON bool
	categorizeDry  bool
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize",
	Short: "Fetch unread mail once and print the categorization",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, cleanup, err := setup(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		s, err := e.openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		buckets := s.ListBuckets(ctx)
		if len(buckets) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No buckets defined. Add one with 'mailbuckets buckets add'.")
		}

		engine, err := e.newEngine(ctx)
		if err != nil {
			return err
		}

		client, err := e.newMailClient()
		if err != nil {
			return err
		}

		e.serveMetrics(ctx)

		emails, err := client.FetchUnread(ctx, e.cfg.Mail.FetchLimit)
		if err != nil {
			return fmt.Errorf("fetching unread mail: %w", err)
		}
		e.logger.Info("fetched unread mail", zap.Int("count", len(emails)))

		if categorizeDry {
			return printEmails(cmd.OutOrStdout(), emails)
		}

		stderr := cmd.ErrOrStderr()
		results := engine.CategorizeAll(ctx, emails, buckets, func(done, total int) {
			fmt.Fprintf(stderr, "\rcategorized %d/%d", done, total)
			if done == total {
				fmt.Fprintln(stderr)
			}
		})

		if categorizeJSON {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		return printResults(cmd.OutOrStdout(), results)
	},
}

func init() {
	categorizeCmd.Flags().BoolVar(&categorizeJSON, "json", false, "Print results as JSON")
	categorizeCmd.Flags().BoolVar(&categorizeDry, "fetch-only", false, "List unread mail without categorizing it")
	categorizeCmd.Flags().Int("limit", 0, "Maximum number of unread messages to fetch")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// printResults renders one row per categorization.
func printResults(w io.Writer, results []model.Categorization) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No unread mail.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.DimmedStyle).
		Headers("BUCKET", "CONF", "FROM", "SUBJECT", "SUMMARY")

	for _, r := range results {
		t.Row(
			r.BucketTitle(),
			strconv.Itoa(int(r.Confidence*100))+"%",
			truncate(r.Email.Sender, 28),
			truncate(r.Email.Subject, 48),
			truncate(r.SummaryText(), 60),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// printEmails renders fetched mail without categorization.
func printEmails(w io.Writer, emails []*model.Email) error {
	if len(emails) == 0 {
		_, err := fmt.Fprintln(w, "No unread mail.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.DimmedStyle).
		Headers("UID", "DATE", "FROM", "SUBJECT")

	for _, em := range emails {
		t.Row(
			em.UID,
			em.Date.Format("2006-01-02 15:04"),
			truncate(em.Sender, 28),
			truncate(em.Subject, 60),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
