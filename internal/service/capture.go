package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/dokodemo-door/internal/apperror"
	"github.com/sakif/dokodemo-door/internal/model"
)

const (
	maxCapturedTitleRunes = 80
	fallbackCaptureTitle  = "quick note"
)

// QuickCaptureInput is a free-text capture. Every optional field left nil is
// derived from Text or defaulted.
type QuickCaptureInput struct {
	Text   string
	Title  *string
	Kind   *string
	Status *string
	Source *string
	URL    *string
	Tags   []string
}

// CaptureService turns free text into entries. It goes through EntryService,
// so captured entries obey the same kind and status rules.
type CaptureService struct {
	entries *EntryService
	logger  *slog.Logger
}

func NewCaptureService(entries *EntryService, logger *slog.Logger) *CaptureService {
	return &CaptureService{entries: entries, logger: logger}
}

// QuickCapture stores Text as the notes of a new entry.
//
// Defaults: kind "note", status "planned", source "quick-capture". The title is
// the first line of the text (see SummarizeTitle) and the URL the first link
// found in it (see ExtractURL).
func (s *CaptureService) QuickCapture(ctx context.Context, in QuickCaptureInput) (*model.Entry, error) {
	entry := model.NewEntry{
		Title:  valueOr(in.Title, SummarizeTitle(in.Text)),
		Kind:   valueOr(in.Kind, model.DefaultKind),
		Status: valueOr(in.Status, model.StatusPlanned),
		Notes:  in.Text,
		URL:    in.URL,
		Source: valueOr(in.Source, model.SourceQuickCapture),
		Tags:   in.Tags,
	}
	if entry.URL == nil {
		entry.URL = ExtractURL(in.Text)
	}

	// An explicit empty status must still be rejected, not defaulted by Create.
	if err := ValidateStatus(entry.Status); err != nil {
		return nil, err
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("quick capture stored",
		slog.String("id", created.ID),
		slog.Bool("has_url", created.URL != nil),
	)
	return created, nil
}

// TelegramCapture stores the text (or caption) of a Telegram message as a
// planned note whose source names the chat it came from.
func (s *CaptureService) TelegramCapture(ctx context.Context, update model.TelegramUpdate) (*model.Entry, error) {
	message := update.Payload()
	if message == nil {
		return nil, apperror.ValidationFailed("message", "telegram update does not contain a message payload")
	}

	text, ok := message.Body()
	if !ok {
		return nil, apperror.ValidationFailed("text", "telegram message does not contain text")
	}

	created, err := s.entries.Create(ctx, model.NewEntry{
		Title:  SummarizeTitle(text),
		Kind:   model.DefaultKind,
		Status: model.StatusPlanned,
		Notes:  text,
		URL:    ExtractURL(text),
		Source: model.TelegramSource(message.Chat.ID),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("telegram message captured",
		slog.String("id", created.ID),
		slog.Int64("chat_id", message.Chat.ID),
		slog.Int64("update_id", update.UpdateID),
	)
	return created, nil
}

// SummarizeTitle returns the trimmed first line of text, cut to 80 characters.
// Blank input gives "quick note".
func SummarizeTitle(text string) string {
	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimSpace(firstLine)

	runes := []rune(firstLine)
	if len(runes) > maxCapturedTitleRunes {
		firstLine = string(runes[:maxCapturedTitleRunes])
	}
	if firstLine == "" {
		return fallbackCaptureTitle
	}
	return firstLine
}

// ExtractURL returns the first whitespace-separated token starting with
// http:// or https://, with trailing ")]},.;" removed. Nil when there is none.
func ExtractURL(text string) *string {
	for _, token := range strings.Fields(text) {
		if strings.HasPrefix(token, "http://") || strings.HasPrefix(token, "https://") {
			url := strings.TrimRight(token, ")]},.;")
			return &url
		}
	}
	return nil
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
