// Package workbook serves a local .xlsx file as a merge grid.
package workbook

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Open opens the workbook at path. Writes are saved back to the same file.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("excelize.OpenFile failed: %w", err)
	}

	return &Workbook{f: f, path: path}, nil
}

// Workbook is a grid over the sheets of one .xlsx file.
type Workbook struct {
	mu   sync.Mutex
	f    *excelize.File
	path string
}

// ReadGrid returns the formatted values of every row of sheet, trailing empty
// rows excluded.
func (w *Workbook) ReadGrid(_ context.Context, sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("f.GetRows(%s) failed: %w", sheet, err)
	}

	return rows, nil
}

func (w *Workbook) ReadCell(_ context.Context, sheet, cell string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	v, err := w.f.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("f.GetCellValue(%s!%s) failed: %w", sheet, cell, err)
	}

	return v, nil
}

func (w *Workbook) WriteCell(_ context.Context, sheet, cell, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.f.SetCellStr(sheet, cell, value); err != nil {
		return fmt.Errorf("f.SetCellStr(%s!%s) failed: %w", sheet, cell, err)
	}

	return w.save()
}

// WriteRange writes values into the rectangle whose top left cell is (row, col) and saves the file.
func (w *Workbook) WriteRange(_ context.Context, sheet string, row, col int, values [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, r := range values {
		for j, v := range r {
			cell, err := excelize.CoordinatesToCellName(col+j, row+i)
			if err != nil {
				return fmt.Errorf("excelize.CoordinatesToCellName failed: %w", err)
			}
			if err := w.f.SetCellStr(sheet, cell, v); err != nil {
				return fmt.Errorf("f.SetCellStr(%s!%s) failed: %w", sheet, cell, err)
			}
		}
	}

	return w.save()
}

// Properties returns the file name without extension as title and a file URL.
func (w *Workbook) Properties(_ context.Context) (title, url string, err error) {
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return "", "", fmt.Errorf("filepath.Abs failed: %w", err)
	}

	base := filepath.Base(w.path)
	return strings.TrimSuffix(base, filepath.Ext(base)), "file://" + filepath.ToSlash(abs), nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.f.Close()
}

func (w *Workbook) save() error {
	if err := w.f.SaveAs(w.path); err != nil {
		return fmt.Errorf("f.SaveAs failed: %w", err)
	}
	log.Println("Workbook saved", w.path)

	return nil
}
