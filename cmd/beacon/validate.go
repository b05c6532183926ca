package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a beacon file against its project type",
	Long: `Validate a beacon written as YAML or JSON. The file holds the base fields,
project_type and type_specific_data, exactly as the wizard submits them.

Exits non-zero and lists every issue when the beacon is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateFile(args[0], cmd.OutOrStdout())
	},
}

// errInvalidBeacon signals validation issues after they were printed.
var errInvalidBeacon = errors.New("beacon is invalid")

// validateFile reads, decodes and validates the beacon at path and writes a
// report to w.
func validateFile(path string, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	p, err := decodeBeacon(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	issues := p.Validate()
	if len(issues) == 0 {
		_, _ = fmt.Fprintf(w, "✓ %s is a valid %s beacon\n", path, p.ProjectType.Label())
		return nil
	}
	_, _ = fmt.Fprintf(w, "✗ %s has %d issue(s):\n", path, len(issues))
	for _, issue := range issues {
		_, _ = fmt.Fprintf(w, "  - %s\n", issue)
	}
	return errInvalidBeacon
}

// decodeBeacon parses YAML or JSON into a payload. JSON documents are valid
// YAML so one decoder serves both.
func decodeBeacon(data []byte) (beacon.Payload, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return beacon.Payload{}, err
	}
	if raw == nil {
		return beacon.Payload{}, errors.New("empty document")
	}
	return beacon.DecodePayload(raw)
}
