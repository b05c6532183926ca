package mcpserver

import (
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the schema tools and, when a store is configured,
// the catalog tools.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_project_types",
			mcp.WithDescription("List the project types a beacon can have"),
		),
		s.handleListProjectTypes,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_schema",
			mcp.WithDescription("Return the JSON Schema of a complete beacon payload for a project type"),
			mcp.WithString("project_type", mcp.Required(),
				mcp.Description("Project type tag"),
				mcp.Enum(projectTypeNames()...),
			),
		),
		s.handleGetSchema,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("validate_beacon",
			mcp.WithDescription("Validate a beacon payload and list every field issue"),
			mcp.WithObject("beacon", mcp.Required(),
				mcp.Description("Beacon payload: base fields, project_type and type_specific_data"),
			),
		),
		s.handleValidateBeacon,
	)

	if s.store == nil {
		return
	}

	s.mcpServer.AddTool(
		mcp.NewTool("create_beacon",
			mcp.WithDescription("Validate and publish a beacon, or save it as a draft"),
			mcp.WithObject("beacon", mcp.Required(),
				mcp.Description("Beacon payload: base fields, project_type and type_specific_data"),
			),
			mcp.WithBoolean("draft",
				mcp.Description("Save as a draft instead of publishing (default: false)"),
			),
		),
		s.handleCreateBeacon,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_beacons",
			mcp.WithDescription("List stored beacons, newest first"),
			mcp.WithString("status",
				mcp.Description("Filter by status"),
				mcp.Enum("draft", "published"),
			),
		),
		s.handleListBeacons,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_beacon",
			mcp.WithDescription("Fetch one beacon by id, id prefix or slug"),
			mcp.WithString("ref", mcp.Required(),
				mcp.Description("Beacon id, id prefix (8+ chars) or slug"),
			),
		),
		s.handleGetBeacon,
	)
}

func projectTypeNames() []string {
	var out []string
	for _, t := range beacon.ProjectTypes() {
		out = append(out, string(t))
	}
	return out
}
