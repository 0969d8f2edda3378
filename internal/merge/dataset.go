package merge

import "errors"

// ErrEmptySheet is returned for a grid without a header row.
var ErrEmptySheet = errors.New("sheet has no header row")

// Dataset is a sheet grid split into its header and one record per data row.
type Dataset struct {
	Header  []string
	Records []Record
}

// NewDataset builds a Dataset from grid, using the first row as field names.
// Cells missing from short rows are "".
func NewDataset(grid [][]string) (*Dataset, error) {
	if len(grid) == 0 {
		return nil, ErrEmptySheet
	}

	header := grid[0]
	records := make([]Record, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := make(Record, len(header))
		for i, field := range header {
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = ""
			}
		}
		records = append(records, rec)
	}

	return &Dataset{Header: header, Records: records}, nil
}

// Column returns the index of the first header equal to field, or -1.
func (d *Dataset) Column(field string) int {
	for i, h := range d.Header {
		if h == field {
			return i
		}
	}
	return -1
}
