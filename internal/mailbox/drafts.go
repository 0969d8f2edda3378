package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/mail"
	"sort"

	"google.golang.org/api/gmail/v1"
	"gopkg.in/gomail.v2"

	"github.com/hal9000y/draft-merge/internal/merge"
)

// RunIDHeader carries the id of the merge run that created a draft.
const RunIDHeader = "X-Draft-Merge-Run"

type draftCreator interface {
	CreateDraft(ctx context.Context, raw []byte) (*gmail.Draft, error)
}

// NewDrafts creates a merge.DraftSink storing drafts through svc.
func NewDrafts(svc draftCreator) *Drafts {
	return &Drafts{svc: svc}
}

// Drafts stores rendered merge drafts as Gmail drafts.
type Drafts struct {
	svc draftCreator
}

// CreateDraft builds the MIME message for d and stores it as a draft.
func (s *Drafts) CreateDraft(ctx context.Context, d merge.OutgoingDraft) error {
	raw, err := BuildMessage(d)
	if err != nil {
		return err
	}

	created, err := s.svc.CreateDraft(ctx, raw)
	if err != nil {
		return fmt.Errorf("svc.CreateDraft failed: %w", err)
	}

	log.Printf("Draft %s created for %s", created.Id, d.To)

	return nil
}

// BuildMessage renders d as an RFC 5322 message: text and html alternatives,
// inline images referenced by Content-ID, then the attachments.
func BuildMessage(d merge.OutgoingDraft) ([]byte, error) {
	addrs, err := mail.ParseAddressList(d.To)
	if err != nil {
		return nil, fmt.Errorf("Invalid email: %s", d.To)
	}

	m := gomail.NewMessage()
	to := make([]string, 0, len(addrs))
	for _, a := range addrs {
		to = append(to, m.FormatAddress(a.Address, a.Name))
	}
	m.SetHeader("To", to...)
	m.SetHeader("Subject", d.Subject)
	if d.RunID != "" {
		m.SetHeader(RunIDHeader, d.RunID)
	}

	m.SetBody("text/plain", d.TextBody)
	if d.HTMLBody != "" {
		m.AddAlternative("text/html", d.HTMLBody)
	}

	cids := make([]string, 0, len(d.InlineImages))
	for cid := range d.InlineImages {
		cids = append(cids, cid)
	}
	sort.Strings(cids)
	for _, cid := range cids {
		img := d.InlineImages[cid]
		m.Embed(img.Name,
			gomail.SetCopyFunc(copyBlob(img)),
			gomail.SetHeader(map[string][]string{
				"Content-ID":   {"<" + cid + ">"},
				"Content-Type": {contentType(img)},
			}),
		)
	}

	for _, a := range d.Attachments {
		m.Attach(a.Name,
			gomail.SetCopyFunc(copyBlob(a)),
			gomail.SetHeader(map[string][]string{
				"Content-Type": {contentType(a)},
			}),
		)
	}

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("m.WriteTo failed: %w", err)
	}

	return buf.Bytes(), nil
}

func copyBlob(b merge.Blob) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(b.Data)
		return err
	}
}

func contentType(b merge.Blob) string {
	ct := b.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	if formatted := mime.FormatMediaType(ct, map[string]string{"name": b.Name}); formatted != "" {
		return formatted
	}
	return "application/octet-stream"
}
