package gservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	renderFormatted  = "FORMATTED_VALUE"
	inputUserEntered = "USER_ENTERED"
)

// NewSheets creates a grid backed by the spreadsheet spreadsheetID.
func NewSheets(clt httpClientSource, spreadsheetID string) *Sheets {
	return &Sheets{
		clt:           clt,
		spreadsheetID: spreadsheetID,
	}
}

// Sheets reads displayed cell values from, and writes values to, one spreadsheet.
type Sheets struct {
	clt           httpClientSource
	spreadsheetID string
}

// ReadGrid returns the displayed values of every used cell of sheet.
func (s *Sheets) ReadGrid(ctx context.Context, sheet string) ([][]string, error) {
	vr, err := s.get(ctx, quoteSheet(sheet))
	if err != nil {
		return nil, err
	}

	return toGrid(vr.Values), nil
}

func (s *Sheets) ReadCell(ctx context.Context, sheet, cell string) (string, error) {
	vr, err := s.get(ctx, quoteSheet(sheet)+"!"+cell)
	if err != nil {
		return "", err
	}

	grid := toGrid(vr.Values)
	if len(grid) == 0 || len(grid[0]) == 0 {
		return "", nil
	}

	return grid[0][0], nil
}

func (s *Sheets) WriteCell(ctx context.Context, sheet, cell, value string) error {
	return s.update(ctx, quoteSheet(sheet)+"!"+cell, [][]string{{value}})
}

// WriteRange writes values into the rectangle whose top left cell is (row, col).
func (s *Sheets) WriteRange(ctx context.Context, sheet string, row, col int, values [][]string) error {
	topLeft, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("excelize.CoordinatesToCellName failed: %w", err)
	}

	return s.update(ctx, quoteSheet(sheet)+"!"+topLeft, values)
}

// Properties returns the spreadsheet title and its browser URL.
func (s *Sheets) Properties(ctx context.Context) (title, url string, err error) {
	svc, err := s.newSvc(ctx)
	if err != nil {
		return "", "", fmt.Errorf("newSvc failed: %w", err)
	}

	ss, err := svc.Spreadsheets.Get(s.spreadsheetID).Fields("properties.title", "spreadsheetUrl").Context(ctx).Do()
	if err != nil {
		return "", "", fmt.Errorf("spreadsheets.Get failed: %w", err)
	}
	if ss.Properties != nil {
		title = ss.Properties.Title
	}

	return title, ss.SpreadsheetUrl, nil
}

func (s *Sheets) get(ctx context.Context, rng string) (*sheets.ValueRange, error) {
	svc, err := s.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	vr, err := svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption(renderFormatted).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("values.Get(%s) failed: %w", rng, err)
	}

	return vr, nil
}

func (s *Sheets) update(ctx context.Context, rng string, values [][]string) error {
	svc, err := s.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	rows := make([][]interface{}, 0, len(values))
	for _, r := range values {
		cells := make([]interface{}, 0, len(r))
		for _, v := range r {
			cells = append(cells, v)
		}
		rows = append(rows, cells)
	}

	_, err = svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption(inputUserEntered).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("values.Update(%s) failed: %w", rng, err)
	}

	return nil
}

func (s *Sheets) newSvc(ctx context.Context) (*sheets.Service, error) {
	clt, err := s.clt.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("clt.HTTPClient failed: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("sheets.NewService failed: %w", err)
	}

	return svc, nil
}

func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func toGrid(values [][]interface{}) [][]string {
	grid := make([][]string, 0, len(values))
	for _, r := range values {
		row := make([]string, 0, len(r))
		for _, v := range r {
			row = append(row, fmt.Sprint(v))
		}
		grid = append(grid, row)
	}
	return grid
}
