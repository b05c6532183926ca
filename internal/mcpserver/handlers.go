package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

type projectTypeInfo struct {
	Type        beacon.ProjectType `json:"type"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
}

// validationResult is returned by validate_beacon.
type validationResult struct {
	Valid  bool          `json:"valid"`
	Issues beacon.Issues `json:"issues,omitempty"`
}

// recordSummary is one line of list_beacons.
type recordSummary struct {
	ID          string             `json:"id"`
	Slug        string             `json:"slug"`
	Title       string             `json:"title"`
	ProjectType beacon.ProjectType `json:"project_type"`
	Status      string             `json:"status"`
	Author      string             `json:"author"`
}

func (s *Server) handleListProjectTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []projectTypeInfo
	for _, t := range beacon.ProjectTypes() {
		out = append(out, projectTypeInfo{Type: t, Label: t.Label(), Description: t.Description()})
	}
	return jsonResult(out)
}

func (s *Server) handleGetSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("project_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := beacon.ParseProjectType(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	schema, _ := beacon.PayloadJSONSchema(t)
	return jsonResult(schema)
}

func (s *Server) handleValidateBeacon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := payloadArg(request)
	if errResult != nil {
		return errResult, nil
	}
	issues := p.Validate()
	return jsonResult(validationResult{Valid: len(issues) == 0, Issues: issues})
}

func (s *Server) handleCreateBeacon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := payloadArg(request)
	if errResult != nil {
		return errResult, nil
	}

	var (
		rec *store.Record
		err error
	)
	if request.GetBool("draft", false) {
		rec, err = s.store.SaveDraft(ctx, "", s.author, p)
	} else {
		rec, err = s.store.Publish(ctx, "", s.author, p)
	}
	if err != nil {
		var issues beacon.Issues
		if errors.As(err, &issues) {
			return jsonErrorResult(validationResult{Valid: false, Issues: issues})
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created %s beacon %s (%s)", rec.Status, rec.ID, rec.Slug)), nil
}

func (s *Server) handleListBeacons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := request.GetString("status", "")
	if status != "" && status != store.StatusDraft && status != store.StatusPublished {
		return mcp.NewToolResultError(fmt.Sprintf("invalid status: %s (must be draft or published)", status)), nil
	}

	records, err := s.store.List(ctx, status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]recordSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, recordSummary{
			ID:          rec.ID,
			Slug:        rec.Slug,
			Title:       rec.Payload.Title,
			ProjectType: rec.Payload.ProjectType,
			Status:      rec.Status,
			Author:      rec.Author,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetBeacon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := request.RequireString("ref")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.store.Get(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rec)
}

// payloadArg decodes the "beacon" argument. Argument problems are returned as
// a tool error result.
func payloadArg(request mcp.CallToolRequest) (beacon.Payload, *mcp.CallToolResult) {
	args := request.GetArguments()
	if args == nil {
		return beacon.Payload{}, mcp.NewToolResultError("no arguments provided")
	}
	var raw map[string]any
	switch v := args["beacon"].(type) {
	case map[string]any:
		raw = v
	case string:
		// Some clients send nested objects as JSON text.
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			return beacon.Payload{}, mcp.NewToolResultError("'beacon' is not a JSON object: " + err.Error())
		}
	case nil:
		return beacon.Payload{}, mcp.NewToolResultError("missing 'beacon' parameter")
	default:
		return beacon.Payload{}, mcp.NewToolResultError(fmt.Sprintf("'beacon' must be an object, got %T", v))
	}

	p, err := beacon.DecodePayload(raw)
	if err != nil {
		return beacon.Payload{}, mcp.NewToolResultError(strings.TrimSpace(err.Error()))
	}
	return p, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func jsonErrorResult(v any) (*mcp.CallToolResult, error) {
	res, err := jsonResult(v)
	if err != nil {
		return nil, err
	}
	res.IsError = true
	return res, nil
}
