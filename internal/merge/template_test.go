package merge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/draft-merge/internal/merge"
)

const sl1HTML = `<p>Hello {{Name}}</p>` +
	`<img width="10" src="cid:ii_logo" alt="logo.png" height="10">` +
	`<img src="cid:ii_banner" alt="banner.jpg" >` +
	`<img src="cid:ii_gone" alt="gone.png" >`

func newTemplateProvider() *providerMock {
	logo := merge.Blob{Name: "logo.png", ContentType: "image/png", Data: []byte("png-logo")}
	banner := merge.Blob{Name: "banner.jpg", ContentType: "image/jpeg", Data: []byte("jpg-banner")}
	brief := merge.Blob{Name: "brief.pdf", ContentType: "application/pdf", Data: []byte("pdf")}

	return &providerMock{
		ListDraftsFunc: func(_ context.Context) ([]merge.DraftRef, error) {
			return []merge.DraftRef{
				{ID: "d-other", Subject: "Weekly notes"},
				{ID: "d-sl1", Subject: "{{SL1}}"},
				{ID: "d-sl1-copy", Subject: "{{SL1}}"},
				{ID: "d-broken", Subject: "{{SL2}}"},
			}, nil
		},
		GetDraftMessageFunc: func(_ context.Context, draftID string) (*merge.DraftMessage, error) {
			switch draftID {
			case "d-sl1":
				return &merge.DraftMessage{
					Subject:      "{{SL1}}",
					TextBody:     "Hello {{Name}}",
					HTMLBody:     sl1HTML,
					Attachments:  []merge.Blob{brief},
					InlineImages: []merge.Blob{logo, banner},
				}, nil
			case "d-sl1-copy":
				return &merge.DraftMessage{Subject: "{{SL1}}", TextBody: "copy"}, nil
			default:
				return nil, errors.New("googleapi: Error 404: Requested entity was not found")
			}
		},
	}
}

func TestTemplateLoaderLoad(t *testing.T) {
	loader := merge.NewTemplateLoader(newTemplateProvider())

	tpl, err := loader.Load(context.Background(), "{{SL1}}")
	require.NoError(t, err)

	assert.Equal(t, merge.Message{
		Subject: "{{SL1}}",
		Text:    "Hello {{Name}}",
		HTML:    sl1HTML,
	}, tpl.Message)
	assert.Equal(t, []merge.Blob{{Name: "brief.pdf", ContentType: "application/pdf", Data: []byte("pdf")}}, tpl.Attachments)
	assert.Equal(t, map[string]merge.Blob{
		"ii_logo":   {Name: "logo.png", ContentType: "image/png", Data: []byte("png-logo")},
		"ii_banner": {Name: "banner.jpg", ContentType: "image/jpeg", Data: []byte("jpg-banner")},
	}, tpl.InlineImages)
}

func TestTemplateLoaderNotFound(t *testing.T) {
	cases := []struct {
		name     string
		subject  string
		provider *providerMock
	}{
		{
			name:     "no matching subject",
			subject:  "{{SL3}}",
			provider: newTemplateProvider(),
		},
		{
			name:     "matching draft cannot be read",
			subject:  "{{SL2}}",
			provider: newTemplateProvider(),
		},
		{
			name:    "drafts cannot be listed",
			subject: "{{SL1}}",
			provider: &providerMock{
				ListDraftsFunc: func(_ context.Context) ([]merge.DraftRef, error) {
					return nil, errors.New("quota exceeded")
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := merge.NewTemplateLoader(tc.provider).Load(context.Background(), tc.subject)
			require.ErrorIs(t, err, merge.ErrTemplateNotFound)
			assert.Equal(t, "Oops - can't find Gmail draft", err.Error())
		})
	}
}
