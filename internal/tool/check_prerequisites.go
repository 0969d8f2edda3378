package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/draft-merge/internal/merge"
)

// CheckPrerequisitesRequest has no arguments.
type CheckPrerequisitesRequest struct{}

// CheckPrerequisitesResponse tells whether a merge run may start.
type CheckPrerequisitesResponse struct {
	Ready   bool   `json:"ready" jsonschema:"true when every required selection is made"`
	Message string `json:"message,omitempty" jsonschema:"what is left to select"`
}

type cellStore interface {
	ReadCell(ctx context.Context, sheet, cell string) (string, error)
	WriteCell(ctx context.Context, sheet, cell, value string) error
}

// NewCheckPrerequisites creates a new CheckPrerequisites tool.
func NewCheckPrerequisites(cfg merge.Config, cells cellStore) *CheckPrerequisites {
	return &CheckPrerequisites{cfg: cfg, cells: cells}
}

type CheckPrerequisites struct {
	cfg   merge.Config
	cells cellStore
}

func (t *CheckPrerequisites) CheckPrerequisites(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckPrerequisitesRequest,
) (*mcp.CallToolResult, CheckPrerequisitesResponse, error) {
	msg, err := merge.CheckPrerequisites(ctx, t.cells, t.cfg)
	if err != nil {
		return nil, CheckPrerequisitesResponse{}, fmt.Errorf("merge.CheckPrerequisites failed: %w", err)
	}

	return nil, CheckPrerequisitesResponse{Ready: msg == "", Message: msg}, nil
}
