package merge

// OutcomeKind tells what happened to a row during a run.
type OutcomeKind string

const (
	OutcomeSent      OutcomeKind = "sent"
	OutcomeFailed    OutcomeKind = "failed"
	OutcomeUnchanged OutcomeKind = "unchanged"
)

// Outcome is the result of processing one row. Value is what gets written to
// the status column: the creation time, the error text or the untouched value.
type Outcome struct {
	Row       int
	Recipient string
	Kind      OutcomeKind
	Value     string
	Err       error
}

func sent(row int, recipient, at string) Outcome {
	return Outcome{Row: row, Recipient: recipient, Kind: OutcomeSent, Value: at}
}

func failed(row int, recipient string, err error) Outcome {
	return Outcome{Row: row, Recipient: recipient, Kind: OutcomeFailed, Value: err.Error(), Err: err}
}

func unchanged(row int, recipient, value string) Outcome {
	return Outcome{Row: row, Recipient: recipient, Kind: OutcomeUnchanged, Value: value}
}

// Report summarizes a run.
type Report struct {
	Sheet    string
	Subject  string
	Marker   string
	RunID    string
	Outcomes []Outcome
}

// Count returns how many outcomes are of kind k.
func (r *Report) Count(k OutcomeKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// Column returns the outcome values in row order, one cell per row.
func (r *Report) Column() [][]string {
	col := make([][]string, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		col = append(col, []string{o.Value})
	}
	return col
}
