// Package mailbox adapts a Gmail mailbox to the merge template and draft interfaces.
package mailbox

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/draft-merge/internal/format"
	"github.com/hal9000y/draft-merge/internal/merge"
)

type draftsSvc interface {
	ListDrafts(ctx context.Context) ([]*gmail.Draft, error)
	GetDraftMetadata(ctx context.Context, draftID string) (*gmail.Draft, error)
	GetDraft(ctx context.Context, draftID string) (*gmail.Draft, error)
	GetAttachment(ctx context.Context, msgID, attachmentID string) (*gmail.MessagePartBody, error)
}

// NewTemplates creates a merge.TemplateProvider reading the drafts of svc.
func NewTemplates(svc draftsSvc) *Templates {
	return &Templates{svc: svc}
}

// Templates exposes Gmail drafts as merge templates.
type Templates struct {
	svc draftsSvc
}

// ListDrafts lists drafts with their subject, in the order Gmail returns them.
func (t *Templates) ListDrafts(ctx context.Context) ([]merge.DraftRef, error) {
	drafts, err := t.svc.ListDrafts(ctx)
	if err != nil {
		return nil, fmt.Errorf("svc.ListDrafts failed: %w", err)
	}

	refs := make([]merge.DraftRef, 0, len(drafts))
	for _, d := range drafts {
		meta, err := t.svc.GetDraftMetadata(ctx, d.Id)
		if err != nil {
			return nil, fmt.Errorf("get draft %s failed: %w", d.Id, err)
		}

		ref := merge.DraftRef{ID: d.Id}
		if meta.Message != nil && meta.Message.Payload != nil {
			ref.Subject = header(meta.Message.Payload, "Subject")
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

// GetDraftMessage returns the subject, bodies and files of a draft. A draft
// without a text part gets one derived from its HTML.
func (t *Templates) GetDraftMessage(ctx context.Context, draftID string) (*merge.DraftMessage, error) {
	draft, err := t.svc.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("svc.GetDraft failed: %w", err)
	}
	if draft.Message == nil || draft.Message.Payload == nil {
		return nil, fmt.Errorf("draft %s has no message payload", draftID)
	}
	msg := draft.Message

	out := &merge.DraftMessage{Subject: header(msg.Payload, "Subject")}
	out.TextBody, out.HTMLBody = extractMessageBodies(msg.Payload)
	if out.TextBody == "" && out.HTMLBody != "" {
		if out.TextBody, err = format.HTML2Text(out.HTMLBody); err != nil {
			return nil, fmt.Errorf("format.HTML2Text failed: %w", err)
		}
	}

	for _, part := range fileParts(msg.Payload) {
		blob, err := t.readFile(ctx, msg.Id, part)
		if err != nil {
			return nil, fmt.Errorf("read %s failed: %w", part.Filename, err)
		}
		if isInline(part) {
			out.InlineImages = append(out.InlineImages, blob)
		} else {
			out.Attachments = append(out.Attachments, blob)
		}
	}

	log.Printf("Draft %s: %d attachments, %d inline images", draftID, len(out.Attachments), len(out.InlineImages))

	return out, nil
}

func (t *Templates) readFile(ctx context.Context, msgID string, part *gmail.MessagePart) (merge.Blob, error) {
	data := part.Body.Data
	if data == "" && part.Body.AttachmentId != "" {
		body, err := t.svc.GetAttachment(ctx, msgID, part.Body.AttachmentId)
		if err != nil {
			return merge.Blob{}, fmt.Errorf("svc.GetAttachment failed: %w", err)
		}
		data = body.Data
	}

	raw, err := decodeBase64URL(data)
	if err != nil {
		return merge.Blob{}, err
	}

	return merge.Blob{
		Name:        part.Filename,
		ContentType: part.MimeType,
		Data:        raw,
	}, nil
}

func extractMessageBodies(payload *gmail.MessagePart) (textBody, htmlBody string) {
	if payload.Filename != "" {
		return "", ""
	}
	textBody, htmlBody = extractBodyFromPart(payload)

	for _, part := range payload.Parts {
		partText, partHTML := extractMessageBodies(part)
		if textBody == "" {
			textBody = partText
		}
		if htmlBody == "" {
			htmlBody = partHTML
		}
	}

	return textBody, htmlBody
}

func extractBodyFromPart(part *gmail.MessagePart) (textBody, htmlBody string) {
	if part.Body == nil || part.Body.Data == "" {
		return "", ""
	}

	decoded, err := decodeBase64URL(part.Body.Data)
	if err != nil {
		return "", ""
	}

	switch part.MimeType {
	case "text/plain":
		return string(decoded), ""
	case "text/html":
		return "", string(decoded)
	default:
		return "", ""
	}
}

// fileParts returns every part carrying a named file, depth first.
func fileParts(payload *gmail.MessagePart) []*gmail.MessagePart {
	var parts []*gmail.MessagePart
	if payload.Filename != "" && payload.Body != nil {
		parts = append(parts, payload)
	}
	for _, part := range payload.Parts {
		parts = append(parts, fileParts(part)...)
	}
	return parts
}

func isInline(part *gmail.MessagePart) bool {
	if disp := header(part, "Content-Disposition"); disp != "" {
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(disp)), "inline")
	}
	return header(part, "Content-ID") != ""
}

func header(part *gmail.MessagePart, name string) string {
	for _, h := range part.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func decodeBase64URL(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("base64 decode failed: %w", err)
		}
	}
	return decoded, nil
}
