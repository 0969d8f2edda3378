package merge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrStatusColumnMissing is returned when the dataset sheet has no sent-status header.
var ErrStatusColumnMissing = errors.New("status column not found")

// GridSource reads and writes cells of a spreadsheet. Rows and columns are 1-based.
type GridSource interface {
	ReadGrid(ctx context.Context, sheet string) ([][]string, error)
	ReadCell(ctx context.Context, sheet, cell string) (string, error)
	WriteCell(ctx context.Context, sheet, cell, value string) error
	WriteRange(ctx context.Context, sheet string, row, col int, values [][]string) error
}

// OutgoingDraft is a rendered draft ready to be stored for one recipient.
type OutgoingDraft struct {
	To           string
	Subject      string
	TextBody     string
	HTMLBody     string
	Attachments  []Blob
	InlineImages map[string]Blob
	// RunID tags every draft created within one run.
	RunID string
}

// DraftSink stores rendered drafts.
type DraftSink interface {
	CreateDraft(ctx context.Context, d OutgoingDraft) error
}

type templateLoader interface {
	Load(ctx context.Context, subject string) (*Template, error)
}

// Option customizes a Processor.
type Option func(*Processor)

// WithClock sets the time source used for sent timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithRunID sets the generator of run identifiers.
func WithRunID(newID func() string) Option {
	return func(p *Processor) { p.newRunID = newID }
}

// NewProcessor creates a Processor.
func NewProcessor(cfg Config, grid GridSource, templates templateLoader, sink DraftSink, opts ...Option) *Processor {
	p := &Processor{
		cfg:       cfg,
		grid:      grid,
		templates: templates,
		sink:      sink,
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Processor creates one draft per unprocessed row of a sheet.
type Processor struct {
	cfg       Config
	grid      GridSource
	templates templateLoader
	sink      DraftSink
	now       func() time.Time
	newRunID  func() string
}

// Run loads the template selected by the submission purpose, creates a draft
// for every row with an empty status and writes all row outcomes back in one
// range. Rows with a status are left as they are.
func (p *Processor) Run(ctx context.Context, sheet string) (*Report, error) {
	purpose, err := p.grid.ReadCell(ctx, p.cfg.SubmissionSheet, p.cfg.PurposeCell)
	if err != nil {
		return nil, fmt.Errorf("grid.ReadCell failed: %w", err)
	}
	subject, marker := p.cfg.subjectFor(purpose)

	tpl, err := p.templates.Load(ctx, subject)
	if err != nil {
		return nil, err
	}

	if err := p.grid.WriteCell(ctx, sheet, p.cfg.MarkerCell, marker); err != nil {
		return nil, fmt.Errorf("grid.WriteCell failed: %w", err)
	}

	grid, err := p.grid.ReadGrid(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("grid.ReadGrid failed: %w", err)
	}
	ds, err := NewDataset(grid)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	statusIdx := ds.Column(p.cfg.SentStatusField)
	if statusIdx < 0 {
		return nil, fmt.Errorf("sheet %s, header %q: %w", sheet, p.cfg.SentStatusField, ErrStatusColumnMissing)
	}

	report := &Report{
		Sheet:    sheet,
		Subject:  subject,
		Marker:   marker,
		RunID:    p.newRunID(),
		Outcomes: make([]Outcome, 0, len(ds.Records)),
	}
	log.Printf("Run %s: %d rows in %s, template %s", report.RunID, len(ds.Records), sheet, subject)

	for i, rec := range ds.Records {
		row := i + 2
		if ctx.Err() != nil {
			report.Outcomes = append(report.Outcomes, unchanged(row, rec[p.cfg.RecipientField], rec[p.cfg.SentStatusField]))
			continue
		}
		report.Outcomes = append(report.Outcomes, p.processRow(ctx, row, rec, tpl, report.RunID))
	}

	if len(report.Outcomes) == 0 {
		return report, nil
	}

	// Drafts already exist at this point, so the outcomes are written even if ctx is done.
	writeCtx := context.WithoutCancel(ctx)
	if err := p.grid.WriteRange(writeCtx, sheet, 2, statusIdx+1, report.Column()); err != nil {
		return report, fmt.Errorf("grid.WriteRange failed: %w", err)
	}

	log.Printf("Run %s: %d sent, %d failed, %d unchanged", report.RunID,
		report.Count(OutcomeSent), report.Count(OutcomeFailed), report.Count(OutcomeUnchanged))

	return report, ctx.Err()
}

func (p *Processor) processRow(ctx context.Context, row int, rec Record, tpl *Template, runID string) Outcome {
	recipient := rec[p.cfg.RecipientField]
	if status := rec[p.cfg.SentStatusField]; status != "" {
		return unchanged(row, recipient, status)
	}

	msg := Fill(tpl.Message, rec)
	err := p.sink.CreateDraft(ctx, OutgoingDraft{
		To:           recipient,
		Subject:      msg.Subject,
		TextBody:     msg.Text,
		HTMLBody:     msg.HTML,
		Attachments:  tpl.Attachments,
		InlineImages: tpl.InlineImages,
		RunID:        runID,
	})
	if err != nil {
		log.Printf("Row %d (%s) failed: %v", row, recipient, err)
		return failed(row, recipient, err)
	}

	return sent(row, recipient, p.now().Format(p.cfg.TimeLayout))
}
