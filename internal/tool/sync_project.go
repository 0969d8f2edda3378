package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SyncProjectRequest names the project to sync.
type SyncProjectRequest struct {
	ProjectName string `json:"project_name" jsonschema:"project name, also used for the project mailbox alias"`
}

// SyncProjectResponse carries the sync endpoint answer.
type SyncProjectResponse struct {
	Alias    string `json:"alias" jsonschema:"project mailbox alias written to the Contacts sheet"`
	Response string `json:"response" jsonschema:"body returned by the sync endpoint"`
}

type projectSyncer interface {
	Sync(ctx context.Context, projectName string) (string, error)
	Alias(projectName string) string
}

// NewSyncProject creates a new SyncProject tool.
func NewSyncProject(syncer projectSyncer) *SyncProject {
	return &SyncProject{syncer: syncer}
}

type SyncProject struct {
	syncer projectSyncer
}

func (t *SyncProject) SyncProject(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SyncProjectRequest,
) (*mcp.CallToolResult, SyncProjectResponse, error) {
	body, err := t.syncer.Sync(ctx, input.ProjectName)
	if err != nil {
		return nil, SyncProjectResponse{}, fmt.Errorf("syncer.Sync failed: %w", err)
	}

	return nil, SyncProjectResponse{
		Alias:    t.syncer.Alias(input.ProjectName),
		Response: body,
	}, nil
}
