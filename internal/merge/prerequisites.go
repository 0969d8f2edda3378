package merge

import (
	"context"
	"fmt"
	"strings"
)

type cellReader interface {
	ReadCell(ctx context.Context, sheet, cell string) (string, error)
}

// CheckPrerequisites reports what still has to be selected on the submission
// sheet before drafts can be created. An empty message means the sheet is ready.
func CheckPrerequisites(ctx context.Context, grid cellReader, cfg Config) (string, error) {
	location, err := grid.ReadCell(ctx, cfg.SubmissionSheet, cfg.LocationCell)
	if err != nil {
		return "", fmt.Errorf("grid.ReadCell(%s) failed: %w", cfg.LocationCell, err)
	}
	purpose, err := grid.ReadCell(ctx, cfg.SubmissionSheet, cfg.PurposeCell)
	if err != nil {
		return "", fmt.Errorf("grid.ReadCell(%s) failed: %w", cfg.PurposeCell, err)
	}

	var problems []string
	if location == cfg.UnselectedValue {
		problems = append(problems, fmt.Sprintf("Please select delivery location in cell %s.", cfg.LocationCell))
	}
	if purpose == cfg.UnselectedValue {
		problems = append(problems, fmt.Sprintf("Please select what you're submitting these shots for in cell %s.", cfg.PurposeCell))
	}

	return strings.Join(problems, " "), nil
}
