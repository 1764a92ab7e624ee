package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/stylizer"
)

type Stylizer interface {
	Stylize(ctx context.Context, image []byte, style string) ([]byte, error)
}

type StateRepository interface {
	Save(chatID int64, state domain.State)
	Get(chatID int64) (domain.State, bool)
	Clear(chatID int64)
}

type styleService struct {
	stylizer   Stylizer
	stateRepo  StateRepository
	downloader FileDownloader
	responseCh chan<- domain.Response
}

func NewStyleService(
	styl Stylizer,
	stateRepo StateRepository,
	downloader FileDownloader,
	responseCh chan<- domain.Response,
) *styleService {
	return &styleService{
		stylizer:   styl,
		stateRepo:  stateRepo,
		downloader: downloader,
		responseCh: responseCh,
	}
}

// SetStyle records the style to apply to the chat's next photo.
func (s *styleService) SetStyle(ctx context.Context, chatID int64, args string) {
	style := strings.ToLower(strings.TrimSpace(args))
	if style == "" {
		s.responseCh <- domain.Response{
			ChatID: chatID,
			Text:   "Usage: /style <" + strings.Join(stylizer.SupportedStyles, "|") + ">, then send a photo.",
		}
		return
	}

	if !stylizer.IsSupported(style) {
		s.responseCh <- domain.Response{
			ChatID: chatID,
			Text:   "Unknown style. I only know: " + strings.Join(stylizer.SupportedStyles, ", ") + ".",
		}
		return
	}

	state, _ := s.stateRepo.Get(chatID)
	state.PendingStyle = style
	s.stateRepo.Save(chatID, state)

	s.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   fmt.Sprintf("🎨 %s style selected. Now send me a photo.", strings.ToUpper(style[:1])+style[1:]),
	}
}

func (s *styleService) HasPendingStyle(chatID int64) bool {
	state, ok := s.stateRepo.Get(chatID)
	return ok && state.PendingStyle != ""
}

// StylizePhoto consumes the pending style and runs the stylizer on the photo.
// The pending style is cleared whether or not stylization succeeds, matching
// the one-shot semantics of /style.
func (s *styleService) StylizePhoto(ctx context.Context, chatID int64, fileID string) {
	state, _ := s.stateRepo.Get(chatID)
	style := state.PendingStyle

	state.PendingStyle = ""
	s.stateRepo.Save(chatID, state)

	data, err := s.downloader.DownloadFile(ctx, fileID)
	if err != nil {
		s.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("downloading photo: %w", err)}
		return
	}

	styled, err := s.stylizer.Stylize(ctx, data, style)
	if err != nil {
		s.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("stylizing photo: %w", err)}
		return
	}

	s.responseCh <- domain.Response{
		ChatID: chatID,
		Image:  &domain.Image{Data: styled, Caption: fmt.Sprintf("In %s style", style)},
	}
}

// ClearPendingStyle drops the style flag while keeping other dialog state.
func (s *styleService) ClearPendingStyle(chatID int64) {
	state, ok := s.stateRepo.Get(chatID)
	if !ok || state.PendingStyle == "" {
		return
	}
	state.PendingStyle = ""
	s.stateRepo.Save(chatID, state)
}
