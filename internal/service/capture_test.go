package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

func newTestCaptureService(t *testing.T) (*CaptureService, *memRepo) {
	t.Helper()
	entries, repo := newTestEntryService(t)
	return NewCaptureService(entries, testLogger()), repo
}

func TestSummarizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "first line", in: "Read Pluto vol.1\nGreat pacing", want: "Read Pluto vol.1"},
		{name: "trims", in: "   spaced out  \nrest", want: "spaced out"},
		{name: "carriage return", in: "windows line\r\nnext", want: "windows line"},
		{name: "empty", in: "", want: "quick note"},
		{name: "blank first line", in: "   \nsecond", want: "quick note"},
		{name: "truncates by characters", in: strings.Repeat("é", 100), want: strings.Repeat("é", 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeTitle(tt.in))
		})
	}
}

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *string
	}{
		{name: "trailing punctuation", in: "save this https://example.com/path?x=1, thanks", want: strPtr("https://example.com/path?x=1")},
		{name: "parenthesized", in: "(see http://example.com/a)", want: strPtr("http://example.com/a")},
		{name: "first link wins", in: "https://a.example https://b.example", want: strPtr("https://a.example")},
		{name: "no scheme", in: "example.com is not a link", want: nil},
		{name: "ftp ignored", in: "ftp://example.com", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURL(tt.in))
		})
	}
}

func TestQuickCapture_Defaults(t *testing.T) {
	svc, _ := newTestCaptureService(t)

	entry, err := svc.QuickCapture(context.Background(), QuickCaptureInput{
		Text: "Watch this talk https://example.com/talk.\nabout Go",
	})
	require.NoError(t, err)

	assert.Equal(t, "Watch this talk https://example.com/talk.", entry.Title)
	assert.Equal(t, model.DefaultKind, entry.Kind)
	assert.Equal(t, model.StatusPlanned, entry.Status)
	assert.Equal(t, model.SourceQuickCapture, entry.Source)
	assert.Equal(t, "Watch this talk https://example.com/talk.\nabout Go", entry.Notes)
	require.NotNil(t, entry.URL)
	assert.Equal(t, "https://example.com/talk", *entry.URL)
}

func TestQuickCapture_ExplicitFields(t *testing.T) {
	svc, repo := newTestCaptureService(t)
	_, err := repo.CreateCategory(context.Background(), "article", "")
	require.NoError(t, err)

	entry, err := svc.QuickCapture(context.Background(), QuickCaptureInput{
		Text:   "body https://ignored.example",
		Title:  strPtr("Chosen"),
		Kind:   strPtr("article"),
		Status: strPtr(model.StatusInProgress),
		Source: strPtr("shortcut"),
		URL:    strPtr("https://kept.example"),
		Tags:   []string{"Later"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Chosen", entry.Title)
	assert.Equal(t, "article", entry.Kind)
	assert.Equal(t, model.StatusInProgress, entry.Status)
	assert.Equal(t, "shortcut", entry.Source)
	assert.Equal(t, "https://kept.example", *entry.URL)
	assert.Equal(t, []string{"later"}, entry.Tags)
}

func TestQuickCapture_Validation(t *testing.T) {
	svc, _ := newTestCaptureService(t)
	ctx := context.Background()

	_, err := svc.QuickCapture(ctx, QuickCaptureInput{Text: "x", Kind: strPtr("manga")})
	assert.ErrorIs(t, err, apperror.ErrInvalidKind)

	_, err = svc.QuickCapture(ctx, QuickCaptureInput{Text: "x", Status: strPtr("")})
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
}

func TestTelegramCapture(t *testing.T) {
	text := "Pluto https://example.com/pluto)\nchapter 3"
	caption := "photo caption"

	tests := []struct {
		name       string
		update     model.TelegramUpdate
		wantNotes  string
		wantSource string
		wantErr    error
	}{
		{
			name:       "message text",
			update:     model.TelegramUpdate{Message: &model.TelegramMessage{Text: &text, Chat: model.TelegramChat{ID: 42}}},
			wantNotes:  text,
			wantSource: "telegram:42",
		},
		{
			name:       "edited message caption",
			update:     model.TelegramUpdate{EditedMessage: &model.TelegramMessage{Caption: &caption, Chat: model.TelegramChat{ID: -7}}},
			wantNotes:  caption,
			wantSource: "telegram:-7",
		},
		{
			name:    "no message",
			update:  model.TelegramUpdate{UpdateID: 1},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "no text",
			update:  model.TelegramUpdate{Message: &model.TelegramMessage{Chat: model.TelegramChat{ID: 1}}},
			wantErr: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestCaptureService(t)

			entry, err := svc.TelegramCapture(context.Background(), tt.update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNotes, entry.Notes)
			assert.Equal(t, tt.wantSource, entry.Source)
			assert.Equal(t, model.DefaultKind, entry.Kind)
			assert.Equal(t, model.StatusPlanned, entry.Status)
			assert.Empty(t, entry.Tags)
		})
	}
}

func TestTelegramCapture_ExtractsURLAndTitle(t *testing.T) {
	svc, _ := newTestCaptureService(t)
	text := "Pluto https://example.com/pluto)\nchapter 3"

	entry, err := svc.TelegramCapture(context.Background(), model.TelegramUpdate{
		Message: &model.TelegramMessage{Text: &text, Chat: model.TelegramChat{ID: 42}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pluto https://example.com/pluto)", entry.Title)
	require.NotNil(t, entry.URL)
	assert.Equal(t, "https://example.com/pluto", *entry.URL)
}
