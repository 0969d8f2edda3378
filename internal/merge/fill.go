package merge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`{{[^{}]+}}`)

// Record is one data row keyed by header name.
type Record map[string]string

// Message is a draft template, or a rendered draft, split into its three text slots.
type Message struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Fill replaces every {{field}} placeholder in the subject, text and html of msg
// with the matching record value. Absent fields render as "". Values are not
// expanded again.
func Fill(msg Message, rec Record) Message {
	sub := substitution(rec, func(s string) string { return s })

	return Message{
		Subject: sub(msg.Subject),
		Text:    sub(msg.Text),
		HTML:    sub(msg.HTML),
	}
}

// RenderShape encodes msg as the JSON object FillJSON expects.
func RenderShape(msg Message) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msg); err != nil {
		return "", fmt.Errorf("enc.Encode failed: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FillJSON substitutes placeholders directly in the serialized message, escaping
// each value with EscapeJSON, and parses the result back.
func FillJSON(shape string, rec Record) (Message, error) {
	filled := substitution(rec, EscapeJSON)(shape)

	var msg Message
	if err := json.Unmarshal([]byte(filled), &msg); err != nil {
		return Message{}, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	return msg, nil
}

func substitution(rec Record, escape func(string) string) func(string) string {
	return func(s string) string {
		return placeholderRe.ReplaceAllStringFunc(s, func(token string) string {
			return escape(rec[fieldName(token)])
		})
	}
}

func fieldName(token string) string {
	return strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, token)
}
