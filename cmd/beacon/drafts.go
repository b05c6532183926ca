package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/store"
	"github.com/spf13/cobra"
)

var draftsFlags struct {
	discard string
	all     bool
}

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List saved drafts",
	Long: `List the drafts saved from the wizard, newest first. Resume one with
'beacon create --resume ID' or drop it with --discard ID.

Use --all to list published beacons as well.`,
	Args: cobra.NoArgs,
	RunE: runDrafts,
}

func init() {
	draftsCmd.Flags().StringVar(&draftsFlags.discard, "discard", "", "Discard the draft with this ID, ID prefix or slug")
	draftsCmd.Flags().BoolVarP(&draftsFlags.all, "all", "a", false, "List published beacons too")
}

func runDrafts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("Failed to close backend: %v", err)
		}
	}()
	st, err := b.requireStore()
	if err != nil {
		return err
	}

	if draftsFlags.discard != "" {
		rec, err := loadDraft(ctx, b, draftsFlags.discard)
		if err != nil {
			return err
		}
		if err := st.Discard(ctx, rec.ID); err != nil {
			return fmt.Errorf("failed to discard draft: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Discarded draft %s\n", rec.ID)
		return nil
	}

	status := store.StatusDraft
	if draftsFlags.all {
		status = ""
	}
	recs, err := st.List(ctx, status)
	if err != nil {
		return err
	}
	return writeRecords(cmd.OutOrStdout(), recs)
}

// writeRecords prints recs as an aligned table.
func writeRecords(w io.Writer, recs []*store.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No drafts.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tTYPE\tTITLE\tUPDATED")
	for _, rec := range recs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.Status,
			rec.Payload.ProjectType,
			title(rec.Payload),
			rec.UpdatedAt.Local().Format(time.DateTime),
		)
	}
	return tw.Flush()
}
