package services

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/stylizer"
)

const systemPrompt = "You are a helpful assistant inside a Telegram bot. Answer concisely and use markdown for formatting."

type OpenRouterClient interface {
	CreateChatCompletion(ctx context.Context, chat *domain.Chat) (string, error)
	GetCredits(ctx context.Context) (domain.Credits, error)
}

type ChatRepository interface {
	Save(chat domain.Chat)
	GetByID(chatID int64) (domain.Chat, bool)
	Clear(chatID int64)
}

type chatService struct {
	client     OpenRouterClient
	chatRepo   ChatRepository
	responseCh chan<- domain.Response
}

func NewChatService(
	client OpenRouterClient,
	chatRepo ChatRepository,
	responseCh chan<- domain.Response,
) *chatService {
	return &chatService{
		client:     client,
		chatRepo:   chatRepo,
		responseCh: responseCh,
	}
}

// GenerateResponse forwards one user turn to the completion API and emits
// exactly one reply on success.
func (c *chatService) GenerateResponse(ctx context.Context, chatID int64, prompt string) {
	if utf8.RuneCountInString(prompt) > domain.MaxPromptLength {
		c.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("prompt of %d runes: %w", utf8.RuneCountInString(prompt), domain.ErrPayloadTooLarge)}
		return
	}

	chat, ok := c.chatRepo.GetByID(chatID)
	if !ok {
		chat = domain.Chat{
			ID:       chatID,
			Messages: []domain.Message{{Role: domain.MessageRoleSystem, Content: systemPrompt}},
		}
	}

	chat.Messages = append(chat.Messages, domain.Message{Role: domain.MessageRoleUser, Content: prompt})

	slog.InfoContext(ctx, "Calling OpenRouter for chat completion", "chatID", chatID, "messagesCount", len(chat.Messages))

	content, err := c.client.CreateChatCompletion(ctx, &chat)
	if err != nil {
		c.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("creating chat completion: %w", err)}
		return
	}

	chat.Messages = append(chat.Messages, domain.Message{Role: domain.MessageRoleAssistant, Content: content})
	c.chatRepo.Save(chat)

	c.responseCh <- domain.Response{ChatID: chatID, Text: content}
}

func (c *chatService) ClearChatHistory(ctx context.Context, chatID int64) {
	c.chatRepo.Clear(chatID)
	c.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   "🧹 Session cleared. Start a new chat!",
	}
}

func (c *chatService) SendGreeting(ctx context.Context, chatID int64) {
	commands := []string{"/chat", "/style", "/pdf", "/readpdf", "/contact_admin", "/help"}

	c.responseCh <- domain.Response{
		ChatID: chatID,
		Text: "👋 Hi! I'm an AI bot powered by OpenRouter.\n\n" +
			"🗣 /chat — talk to the AI (just send text)\n" +
			"🎨 /style <" + styleChoices() + "> — stylize your next photo\n" +
			"📄 /pdf — send photos, then /pdf to get them as one PDF\n" +
			"📖 /readpdf — send a PDF, I'll extract its text\n" +
			"🧹 /clear — clear the session\n" +
			"📩 /contact_admin — message the admin",
		Keyboard: &domain.Keyboard{Buttons: lo.Chunk(commands, 2)},
	}
}

func (c *chatService) SendHelp(ctx context.Context, chatID int64) {
	c.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   "Use /start for the menu. Send plain text to chat with the AI, photos to collect a PDF, or a PDF file to extract its text.",
	}
}

func (c *chatService) SendChatPrompt(ctx context.Context, chatID int64) {
	c.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   "Send me a message and I'll answer through OpenRouter.",
	}
}

func (c *chatService) SendBalance(ctx context.Context, chatID int64) {
	credits, err := c.client.GetCredits(ctx)
	if err != nil {
		c.responseCh <- domain.Response{ChatID: chatID, Err: fmt.Errorf("fetching credits: %w", err)}
		return
	}

	c.responseCh <- domain.Response{ChatID: chatID, Text: credits.String()}
}

func styleChoices() string {
	return lo.Reduce(stylizer.SupportedStyles, func(acc, s string, i int) string {
		return lo.Ternary(i == 0, s, acc+"|"+s)
	}, "")
}
