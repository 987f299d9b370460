package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/mailbuckets/internal/bucketfile"
	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/store"
	"github.com/nhle/mailbuckets/internal/theme"
)

var bucketsJSON bool

var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "Manage bucket definitions",
}

var bucketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List buckets in creation order",
	Args:  cobra.NoArgs,
	RunE: withStore(func(cmd *cobra.Command, s store.BucketStore, _ []string) error {
		buckets := s.ListBuckets(cmd.Context())
		if bucketsJSON {
			return writeJSON(cmd.OutOrStdout(), buckets)
		}
		return printBuckets(cmd.OutOrStdout(), buckets)
	}),
}

var bucketsAddCmd = &cobra.Command{
	Use:   "add <title> <description>",
	Short: "Create a bucket",
	Args:  cobra.ExactArgs(2),
	RunE: withStore(func(cmd *cobra.Command, s store.BucketStore, args []string) error {
		title, prompt := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
		if title == "" || prompt == "" {
			return errors.New("title and description are required")
		}

		b, err := s.CreateBucket(cmd.Context(), title, prompt)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created bucket %q (%s)\n", b.Title, b.ID)
		return nil
	}),
}

var bucketsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change a bucket's title or description",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s store.BucketStore, args []string) error {
		var title, prompt *string
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			v = strings.TrimSpace(v)
			title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			v = strings.TrimSpace(v)
			prompt = &v
		}
		if title == nil && prompt == nil {
			return errors.New("nothing to update: pass --title and/or --description")
		}

		ok, err := s.UpdateBucket(cmd.Context(), args[0], title, prompt)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("bucket %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated bucket %s\n", args[0])
		return nil
	}),
}

var bucketsRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a bucket",
	Args:    cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s store.BucketStore, args []string) error {
		ok, err := s.DeleteBucket(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Bucket %s was already gone\n", args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted bucket %s\n", args[0])
		return nil
	}),
}

var bucketsExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write buckets as YAML to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s store.BucketStore, args []string) error {
		buckets := s.ListBuckets(cmd.Context())

		if len(args) == 0 || args[0] == "-" {
			return bucketfile.Write(cmd.OutOrStdout(), buckets)
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		defer f.Close()

		if err := bucketfile.Write(f, buckets); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d buckets to %s\n", len(buckets), args[0])
		return nil
	}),
}

var bucketsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Create buckets from a YAML file, skipping existing titles",
	Args:  cobra.ExactArgs(1),
	RunE: withStore(func(cmd *cobra.Command, s store.BucketStore, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		entries, err := bucketfile.Read(r)
		if err != nil {
			return err
		}

		created, err := bucketfile.Import(cmd.Context(), s, entries)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d buckets\n", len(created), len(entries))
		return err
	}),
}

func init() {
	bucketsListCmd.Flags().BoolVar(&bucketsJSON, "json", false, "Print buckets as JSON")
	bucketsUpdateCmd.Flags().String("title", "", "New title")
	bucketsUpdateCmd.Flags().String("description", "", "New description")

	bucketsCmd.AddCommand(
		bucketsListCmd,
		bucketsAddCmd,
		bucketsUpdateCmd,
		bucketsRemoveCmd,
		bucketsExportCmd,
		bucketsImportCmd,
	)
}

// withStore opens the bucket store around fn.
func withStore(fn func(*cobra.Command, store.BucketStore, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := setup(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		s, err := e.openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(cmd, s, args)
	}
}

func printBuckets(w io.Writer, buckets []model.Bucket) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintln(w, "No buckets defined.")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.DimmedStyle).
		Headers("ID", "TITLE", "DESCRIPTION", "CREATED")

	for _, b := range buckets {
		t.Row(
			b.ID,
			b.Title,
			truncate(b.Prompt, 60),
			b.CreatedAt.Local().Format("2006-01-02"),
		)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
