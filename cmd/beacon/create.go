package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/store"
	"github.com/mark3labs/beacon/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var createFlags struct {
	resume string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a beacon with the interactive wizard",
	Long: `Open the beacon wizard: choose a project type, fill in the basics and the
type-specific details, preview and publish.

Press ctrl+s on any step after the first to save a draft. Use --resume with a
draft ID, ID prefix or slug to continue where you left off.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createFlags.resume, "resume", "r", "", "Resume a saved draft by ID, ID prefix or slug")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("Failed to close backend: %v", err)
		}
	}()

	var opts wizard.Options
	if createFlags.resume != "" {
		draft, err := loadDraft(ctx, b, createFlags.resume)
		if err != nil {
			return err
		}
		opts.Draft = &draft.Payload
		b.Resume(draft.ID)
		logger.Info("Resuming draft %s", draft.ID)
	}

	nav := form.NewNavigator(form.NewMachine(), b.Collab, form.WithSubmitTimeout(timeout))
	result, err := wizard.Run(ctx, nav, opts)
	if errors.Is(err, wizard.ErrCancelled) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	printCreateResult(result)
	return nil
}

// loadDraft resolves ref to a draft record of the beacon log.
func loadDraft(ctx context.Context, b *backend, ref string) (*store.Record, error) {
	st, err := b.requireStore()
	if err != nil {
		return nil, fmt.Errorf("--resume: %w", err)
	}
	rec, err := st.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if rec.Status != store.StatusDraft {
		return nil, fmt.Errorf("%s is not a draft (status %s)", rec.ID, rec.Status)
	}
	return rec, nil
}

func printCreateResult(r *wizard.Result) {
	for _, p := range r.Created {
		fmt.Printf("Created %s beacon %q\n", p.ProjectType.Label(), title(p))
	}
	if r.DraftsSaved > 0 && len(r.Created) == 0 {
		fmt.Println("Draft saved. List drafts with 'beacon drafts'.")
	}
}

// title returns the payload's title, or "untitled".
func title(p beacon.Payload) string {
	if p.BaseFields.Title == "" {
		return "untitled"
	}
	return p.BaseFields.Title
}
