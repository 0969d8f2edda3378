package merge

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
)

// ErrTemplateNotFound is returned when no usable draft matches the template subject.
var ErrTemplateNotFound = errors.New("Oops - can't find Gmail draft")

var inlineImageRe = regexp.MustCompile(`<img.*?src="cid:(.*?)".*?alt="(.*?)"[^>]+>`)

// Blob is an opaque file taken from a draft.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// DraftRef identifies a stored draft by id and subject.
type DraftRef struct {
	ID      string
	Subject string
}

// DraftMessage is the content of a stored draft.
type DraftMessage struct {
	Subject      string
	TextBody     string
	HTMLBody     string
	Attachments  []Blob
	InlineImages []Blob
}

// TemplateProvider exposes the drafts a template can be taken from.
type TemplateProvider interface {
	ListDrafts(ctx context.Context) ([]DraftRef, error)
	GetDraftMessage(ctx context.Context, draftID string) (*DraftMessage, error)
}

// Template is a reusable draft: the message with its placeholders plus the
// attachments and inline images every rendered draft carries.
type Template struct {
	Message      Message
	Attachments  []Blob
	InlineImages map[string]Blob
}

// NewTemplateLoader creates a TemplateLoader reading drafts from provider.
func NewTemplateLoader(provider TemplateProvider) *TemplateLoader {
	return &TemplateLoader{provider: provider}
}

// TemplateLoader finds template drafts by subject line.
type TemplateLoader struct {
	provider TemplateProvider
}

// Load returns the first draft whose subject equals subject. Any failure is
// reported as ErrTemplateNotFound.
func (l *TemplateLoader) Load(ctx context.Context, subject string) (*Template, error) {
	tpl, err := l.load(ctx, subject)
	if err != nil {
		log.Printf("Template %q not loaded: %v", subject, err)
		return nil, ErrTemplateNotFound
	}

	return tpl, nil
}

func (l *TemplateLoader) load(ctx context.Context, subject string) (*Template, error) {
	drafts, err := l.provider.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("provider.ListDrafts failed: %w", err)
	}

	draftID := ""
	for _, d := range drafts {
		if d.Subject == subject {
			draftID = d.ID
			break
		}
	}
	if draftID == "" {
		return nil, fmt.Errorf("no draft with subject %q among %d drafts", subject, len(drafts))
	}

	msg, err := l.provider.GetDraftMessage(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("provider.GetDraftMessage(%s) failed: %w", draftID, err)
	}

	return &Template{
		Message: Message{
			Subject: subject,
			Text:    msg.TextBody,
			HTML:    msg.HTMLBody,
		},
		Attachments:  msg.Attachments,
		InlineImages: mapInlineImages(msg.HTMLBody, msg.InlineImages),
	}, nil
}

// mapInlineImages keys inline images by the content id the html references them
// with, resolving each <img> through its alt text (the image name).
func mapInlineImages(htmlBody string, images []Blob) map[string]Blob {
	byName := make(map[string]Blob, len(images))
	for _, img := range images {
		byName[img.Name] = img
	}

	byCID := make(map[string]Blob)
	for _, m := range inlineImageRe.FindAllStringSubmatch(htmlBody, -1) {
		if img, ok := byName[m[2]]; ok {
			byCID[m[1]] = img
		}
	}

	return byCID
}
