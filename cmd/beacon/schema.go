package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/invopop/jsonschema"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/spf13/cobra"
)

var schemaFlags struct {
	projectType string
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a beacon",
	Long: `Print the JSON Schema a beacon of the given project type must satisfy.
Without --type, prints a schema for every project type keyed by type.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSchema(cmd.OutOrStdout(), schemaFlags.projectType)
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaFlags.projectType, "type", "t", "", "Project type (e.g. hackathon, open_source)")
}

// writeSchema encodes the schema of typeName, or of all types when empty.
func writeSchema(w io.Writer, typeName string) error {
	var out any
	if typeName != "" {
		t, err := beacon.ParseProjectType(typeName)
		if err != nil {
			return err
		}
		s, _ := beacon.PayloadJSONSchema(t)
		out = s
	} else {
		all := make(map[string]*jsonschema.Schema, len(beacon.ProjectTypes()))
		for _, t := range beacon.ProjectTypes() {
			s, _ := beacon.PayloadJSONSchema(t)
			all[string(t)] = s
		}
		out = all
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
