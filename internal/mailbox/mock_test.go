package mailbox_test

import (
	"context"

	"google.golang.org/api/gmail/v1"
)

type gmailSvcMock struct {
	ListDraftsFunc       func(ctx context.Context) ([]*gmail.Draft, error)
	GetDraftMetadataFunc func(ctx context.Context, draftID string) (*gmail.Draft, error)
	GetDraftFunc         func(ctx context.Context, draftID string) (*gmail.Draft, error)
	GetAttachmentFunc    func(ctx context.Context, msgID, attachmentID string) (*gmail.MessagePartBody, error)
	CreateDraftFunc      func(ctx context.Context, raw []byte) (*gmail.Draft, error)
}

func (m *gmailSvcMock) ListDrafts(ctx context.Context) ([]*gmail.Draft, error) {
	return m.ListDraftsFunc(ctx)
}

func (m *gmailSvcMock) GetDraftMetadata(ctx context.Context, draftID string) (*gmail.Draft, error) {
	return m.GetDraftMetadataFunc(ctx, draftID)
}

func (m *gmailSvcMock) GetDraft(ctx context.Context, draftID string) (*gmail.Draft, error) {
	return m.GetDraftFunc(ctx, draftID)
}

func (m *gmailSvcMock) GetAttachment(ctx context.Context, msgID, attachmentID string) (*gmail.MessagePartBody, error) {
	return m.GetAttachmentFunc(ctx, msgID, attachmentID)
}

func (m *gmailSvcMock) CreateDraft(ctx context.Context, raw []byte) (*gmail.Draft, error) {
	return m.CreateDraftFunc(ctx, raw)
}
