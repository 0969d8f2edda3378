// Package merge fills Gmail draft templates from spreadsheet rows and records
// a per-row outcome back into the sheet.
package merge

import "time"

// Config names the sheet fields and cells a merge run depends on.
type Config struct {
	RecipientField  string
	SentStatusField string

	GenericSubject  string
	GenericMarker   string
	DeliverySubject string
	DeliveryMarker  string

	SubmissionSheet string
	PurposeCell     string
	LocationCell    string
	DeliveryValue   string
	UnselectedValue string

	// MarkerCell is written in the dataset sheet with the marker of the chosen subject.
	MarkerCell  string
	DetailsCell string

	TimeLayout string
}

// DefaultConfig returns the field names and cells used by the delivery sheets.
func DefaultConfig() Config {
	return Config{
		RecipientField:  "Recipient",
		SentStatusField: "Draft Created",
		GenericSubject:  "{{SL1}}",
		GenericMarker:   "SL1",
		DeliverySubject: "{{SL2}}",
		DeliveryMarker:  "SL2",
		SubmissionSheet: "Submission",
		PurposeCell:     "E3",
		LocationCell:    "C1",
		DeliveryValue:   "delivery",
		UnselectedValue: "Select Value",
		MarkerCell:      "A1",
		DetailsCell:     "G2",
		TimeLayout:      time.DateTime,
	}
}

// subjectFor maps the submission purpose to the template subject and its marker.
func (c Config) subjectFor(purpose string) (subject, marker string) {
	if purpose == c.DeliveryValue {
		return c.DeliverySubject, c.DeliveryMarker
	}
	return c.GenericSubject, c.GenericMarker
}
