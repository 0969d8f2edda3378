package merge_test

import (
	"context"
	"fmt"

	"github.com/hal9000y/draft-merge/internal/merge"
)

type gridMock struct {
	ReadGridFunc   func(ctx context.Context, sheet string) ([][]string, error)
	ReadCellFunc   func(ctx context.Context, sheet, cell string) (string, error)
	WriteCellFunc  func(ctx context.Context, sheet, cell, value string) error
	WriteRangeFunc func(ctx context.Context, sheet string, row, col int, values [][]string) error
}

func (m *gridMock) ReadGrid(ctx context.Context, sheet string) ([][]string, error) {
	return m.ReadGridFunc(ctx, sheet)
}

func (m *gridMock) ReadCell(ctx context.Context, sheet, cell string) (string, error) {
	return m.ReadCellFunc(ctx, sheet, cell)
}

func (m *gridMock) WriteCell(ctx context.Context, sheet, cell, value string) error {
	return m.WriteCellFunc(ctx, sheet, cell, value)
}

func (m *gridMock) WriteRange(ctx context.Context, sheet string, row, col int, values [][]string) error {
	return m.WriteRangeFunc(ctx, sheet, row, col, values)
}

type providerMock struct {
	ListDraftsFunc      func(ctx context.Context) ([]merge.DraftRef, error)
	GetDraftMessageFunc func(ctx context.Context, draftID string) (*merge.DraftMessage, error)
}

func (m *providerMock) ListDrafts(ctx context.Context) ([]merge.DraftRef, error) {
	return m.ListDraftsFunc(ctx)
}

func (m *providerMock) GetDraftMessage(ctx context.Context, draftID string) (*merge.DraftMessage, error) {
	return m.GetDraftMessageFunc(ctx, draftID)
}

type sinkMock struct {
	CreateDraftFunc func(ctx context.Context, d merge.OutgoingDraft) error
}

func (m *sinkMock) CreateDraft(ctx context.Context, d merge.OutgoingDraft) error {
	return m.CreateDraftFunc(ctx, d)
}

// sheetStub is an in-memory spreadsheet backing gridMock.
type sheetStub struct {
	cells  map[string]string
	grids  map[string][][]string
	writes []rangeWrite
}

type rangeWrite struct {
	Sheet  string
	Row    int
	Col    int
	Values [][]string
}

func (s *sheetStub) grid() *gridMock {
	return &gridMock{
		ReadGridFunc: func(_ context.Context, sheet string) ([][]string, error) {
			g, ok := s.grids[sheet]
			if !ok {
				return nil, fmt.Errorf("unable to parse range: %s", sheet)
			}
			return g, nil
		},
		ReadCellFunc: func(_ context.Context, sheet, cell string) (string, error) {
			return s.cells[sheet+"!"+cell], nil
		},
		WriteCellFunc: func(_ context.Context, sheet, cell, value string) error {
			s.cells[sheet+"!"+cell] = value
			return nil
		},
		WriteRangeFunc: func(_ context.Context, sheet string, row, col int, values [][]string) error {
			s.writes = append(s.writes, rangeWrite{Sheet: sheet, Row: row, Col: col, Values: values})
			return nil
		},
	}
}
