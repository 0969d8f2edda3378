// Package gservice wraps the Gmail and Sheets APIs used by the merge.
package gservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUserID = "me"

type httpClientSource interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

func NewGmail(clt httpClientSource) *GMail {
	return &GMail{clt: clt}
}

type GMail struct {
	clt httpClientSource
}

// ListDrafts returns every draft of the mailbox in the order Gmail lists them.
func (m *GMail) ListDrafts(ctx context.Context) ([]*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	var drafts []*gmail.Draft
	err = svc.Users.Drafts.List(gmailUserID).Pages(ctx, func(page *gmail.ListDraftsResponse) error {
		drafts = append(drafts, page.Drafts...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drafts.List failed: %w", err)
	}

	return drafts, nil
}

func (m *GMail) GetDraftMetadata(ctx context.Context, draftID string) (*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft, err := svc.Users.Drafts.Get(gmailUserID, draftID).Format("metadata").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drafts.Get failed: %w", err)
	}

	return draft, nil
}

func (m *GMail) GetDraft(ctx context.Context, draftID string) (*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft, err := svc.Users.Drafts.Get(gmailUserID, draftID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drafts.Get failed: %w", err)
	}

	return draft, nil
}

func (m *GMail) GetAttachment(ctx context.Context, msgID, attachmentID string) (*gmail.MessagePartBody, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	attachment, err := svc.Users.Messages.Attachments.Get(gmailUserID, msgID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("attachments.Get failed: %w", err)
	}

	return attachment, nil
}

// CreateDraft stores raw, an RFC 5322 message, as a new draft.
func (m *GMail) CreateDraft(ctx context.Context, raw []byte) (*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft := &gmail.Draft{
		Message: &gmail.Message{Raw: base64.URLEncoding.EncodeToString(raw)},
	}
	created, err := svc.Users.Drafts.Create(gmailUserID, draft).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drafts.Create failed: %w", err)
	}

	return created, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	clt, err := m.clt.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("clt.HTTPClient failed: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
