package tool

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/draft-merge/internal/merge"
)

// DefaultSheet is the dataset sheet used when the request names none.
const DefaultSheet = "Emailer"

// CreateDraftsRequest selects the dataset sheet of a merge run.
type CreateDraftsRequest struct {
	SheetName string `json:"sheet_name,omitempty" jsonschema:"sheet holding one row per recipient, Emailer by default"`
	Details   string `json:"details,omitempty" jsonschema:"email details written to the Emailer sheet before the run"`
}

// CreateDraftsResponse summarizes a merge run.
type CreateDraftsResponse struct {
	RunID     string       `json:"run_id" jsonschema:"identifier stamped on every draft of the run"`
	Sheet     string       `json:"sheet" jsonschema:"dataset sheet"`
	Subject   string       `json:"subject" jsonschema:"subject of the template draft"`
	Created   int          `json:"created" jsonschema:"drafts created"`
	Failed    int          `json:"failed" jsonschema:"rows that failed"`
	Unchanged int          `json:"unchanged" jsonschema:"rows left as they were"`
	Rows      []RowOutcome `json:"rows" jsonschema:"per row outcomes"`
}

type mergeRunner interface {
	Run(ctx context.Context, sheet string) (*merge.Report, error)
}

// NewCreateDrafts creates a new CreateDrafts tool.
func NewCreateDrafts(cfg merge.Config, cells cellStore, runner mergeRunner) *CreateDrafts {
	return &CreateDrafts{cfg: cfg, cells: cells, runner: runner}
}

// CreateDrafts runs a mail merge over one sheet.
type CreateDrafts struct {
	cfg    merge.Config
	cells  cellStore
	runner mergeRunner
}

func (t *CreateDrafts) CreateDrafts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateDraftsRequest,
) (*mcp.CallToolResult, CreateDraftsResponse, error) {
	sheet := input.SheetName
	if sheet == "" {
		sheet = DefaultSheet
	}

	msg, err := merge.CheckPrerequisites(ctx, t.cells, t.cfg)
	if err != nil {
		return nil, CreateDraftsResponse{}, fmt.Errorf("merge.CheckPrerequisites failed: %w", err)
	}
	if msg != "" {
		return nil, CreateDraftsResponse{}, errors.New(msg)
	}

	if input.Details != "" {
		if err := t.cells.WriteCell(ctx, DefaultSheet, t.cfg.DetailsCell, input.Details); err != nil {
			return nil, CreateDraftsResponse{}, fmt.Errorf("cells.WriteCell failed: %w", err)
		}
	}

	report, err := t.runner.Run(ctx, sheet)
	if err != nil {
		return nil, CreateDraftsResponse{}, fmt.Errorf("runner.Run failed: %w", err)
	}
	log.Printf("Merge run %s on %q: %d created, %d failed\n",
		report.RunID, sheet, report.Count(merge.OutcomeSent), report.Count(merge.OutcomeFailed))

	return nil, CreateDraftsResponse{
		RunID:     report.RunID,
		Sheet:     report.Sheet,
		Subject:   report.Subject,
		Created:   report.Count(merge.OutcomeSent),
		Failed:    report.Count(merge.OutcomeFailed),
		Unchanged: report.Count(merge.OutcomeUnchanged),
		Rows:      toRowOutcomes(report.Outcomes),
	}, nil
}
