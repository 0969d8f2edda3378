package tool_test

import (
	"context"

	"github.com/hal9000y/draft-merge/internal/merge"
)

type cellStoreMock struct {
	ReadCellFunc  func(ctx context.Context, sheet, cell string) (string, error)
	WriteCellFunc func(ctx context.Context, sheet, cell, value string) error
}

func (m *cellStoreMock) ReadCell(ctx context.Context, sheet, cell string) (string, error) {
	return m.ReadCellFunc(ctx, sheet, cell)
}

func (m *cellStoreMock) WriteCell(ctx context.Context, sheet, cell, value string) error {
	return m.WriteCellFunc(ctx, sheet, cell, value)
}

type mergeRunnerMock struct {
	RunFunc func(ctx context.Context, sheet string) (*merge.Report, error)
}

func (m *mergeRunnerMock) Run(ctx context.Context, sheet string) (*merge.Report, error) {
	return m.RunFunc(ctx, sheet)
}

type projectSyncerMock struct {
	SyncFunc  func(ctx context.Context, projectName string) (string, error)
	AliasFunc func(projectName string) string
}

func (m *projectSyncerMock) Sync(ctx context.Context, projectName string) (string, error) {
	return m.SyncFunc(ctx, projectName)
}

func (m *projectSyncerMock) Alias(projectName string) string {
	return m.AliasFunc(projectName)
}
