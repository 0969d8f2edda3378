package deliverysync

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrProjectNameEmpty is returned by Syncer.Sync for a blank project name.
var ErrProjectNameEmpty = errors.New("project name is empty")

// Cells the form handler fills before the sync call.
const (
	EmailerSheet    = "Emailer"
	SheetURLCell    = "I2"
	ContactsSheet   = "Contacts"
	AliasCell       = "D2"
	SubmissionSheet = "Submission"
	SheetNameCell   = "A1"
)

type cellWriter interface {
	WriteCell(ctx context.Context, sheet, cell, value string) error
}

type propertiesSource interface {
	Properties(ctx context.Context) (title, url string, err error)
}

type syncClient interface {
	Sync(ctx context.Context, projectName, sheetName string) (string, error)
}

// NewSyncer creates a Syncer. Project aliases are built as <project>@aliasDomain.
func NewSyncer(cells cellWriter, props propertiesSource, clt syncClient, aliasDomain string) *Syncer {
	return &Syncer{
		cells:       cells,
		props:       props,
		clt:         clt,
		aliasDomain: aliasDomain,
	}
}

// Syncer records the project in the spreadsheet and triggers the delivery sync.
type Syncer struct {
	cells       cellWriter
	props       propertiesSource
	clt         syncClient
	aliasDomain string
}

// Sync writes the spreadsheet URL, the project alias and the spreadsheet title
// into their cells, then syncs the spreadsheet under its title.
func (s *Syncer) Sync(ctx context.Context, projectName string) (string, error) {
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return "", ErrProjectNameEmpty
	}

	title, url, err := s.props.Properties(ctx)
	if err != nil {
		return "", fmt.Errorf("props.Properties failed: %w", err)
	}

	writes := []struct{ sheet, cell, value string }{
		{EmailerSheet, SheetURLCell, url},
		{ContactsSheet, AliasCell, s.Alias(projectName)},
		{SubmissionSheet, SheetNameCell, title},
	}
	for _, w := range writes {
		if err := s.cells.WriteCell(ctx, w.sheet, w.cell, w.value); err != nil {
			return "", fmt.Errorf("cells.WriteCell(%s!%s) failed: %w", w.sheet, w.cell, err)
		}
	}

	return s.clt.Sync(ctx, projectName, title)
}

// Alias returns the mailbox alias of a project.
func (s *Syncer) Alias(projectName string) string {
	return strings.TrimSpace(projectName) + "@" + s.aliasDomain
}
