package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/beacon/internal/logger"
	"github.com/mark3labs/beacon/internal/store"
	"github.com/mark3labs/beacon/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var showFlags struct {
	json bool
}

var showCmd = &cobra.Command{
	Use:   "show REF",
	Short: "Show a beacon or draft",
	Long: `Show a beacon by ID, ID prefix (at least eight characters) or slug.
Renders markdown by default; --json prints the stored record.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFlags.json, "json", false, "Print the record as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
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

	rec, err := st.Get(ctx, args[0])
	if err != nil {
		return err
	}
	return writeRecord(cmd.OutOrStdout(), rec, showFlags.json, wizard.DetectProfile())
}

// writeRecord prints rec as highlighted JSON or rendered markdown.
func writeRecord(w io.Writer, rec *store.Record, asJSON bool, profile colorprofile.Profile) error {
	if asJSON {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode beacon: %w", err)
		}
		_, err = fmt.Fprintln(w, highlightJSON(string(data), profile))
		return err
	}

	header := fmt.Sprintf("%s · %s · by %s · updated %s\n\n",
		rec.ID, rec.Status, rec.Author, rec.UpdatedAt.Local().Format("2006-01-02 15:04"))
	_, err := fmt.Fprint(w, header+wizard.RenderMarkdown(rec.Payload.Markdown(), 100, profile))
	return err
}

// highlightJSON colours source for the terminal profile. Plain text is
// returned when the output is not a colour terminal or highlighting fails.
func highlightJSON(source string, profile colorprofile.Profile) string {
	var formatterName string
	switch profile {
	case colorprofile.TrueColor:
		formatterName = "terminal16m"
	case colorprofile.ANSI256:
		formatterName = "terminal256"
	case colorprofile.ANSI:
		formatterName = "terminal16"
	default:
		return source
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get(formatterName)
	if formatter == nil {
		return source
	}

	// Use monokai style (dark theme, similar to our UI palette)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
