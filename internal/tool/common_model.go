package tool

import "github.com/hal9000y/draft-merge/internal/merge"

// RowOutcome is the result of one sheet row.
type RowOutcome struct {
	Row       int    `json:"row" jsonschema:"1-based sheet row"`
	Recipient string `json:"recipient,omitempty" jsonschema:"recipient of the row"`
	Outcome   string `json:"outcome" jsonschema:"sent, failed or unchanged"`
	Value     string `json:"value" jsonschema:"value written to the status column"`
}

func toRowOutcomes(outcomes []merge.Outcome) []RowOutcome {
	rows := make([]RowOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, RowOutcome{
			Row:       o.Row,
			Recipient: o.Recipient,
			Outcome:   string(o.Kind),
			Value:     o.Value,
		})
	}
	return rows
}
