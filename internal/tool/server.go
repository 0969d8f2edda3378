package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/draft-merge/internal/merge"
)

// NewServer creates an MCP server with the draft merge tools.
func NewServer(cfg merge.Config, cells cellStore, runner mergeRunner, syncer projectSyncer) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "draft-merge", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_prerequisites",
		Description: "Check that the delivery location and the submission purpose are selected in the Submission sheet",
	}, NewCheckPrerequisites(cfg, cells).CheckPrerequisites)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_drafts",
		Description: "Create one Gmail draft per sheet row without a status, filled from the row, and record the outcome in the sheet",
	}, NewCreateDrafts(cfg, cells, runner).CreateDrafts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sync_project",
		Description: "Record the project in the spreadsheet and trigger the delivery sync",
	}, NewSyncProject(syncer).SyncProject)

	return server
}
