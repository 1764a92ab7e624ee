package telegram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/logger"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/render"
)

const maxMessageLength = 4096

type client struct {
	token     string
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %w", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	return &client{
		token:     token,
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

// SendResponse delivers one outbound reply. Handler errors are translated to
// plain-language texts here, at the last boundary before the user.
func (c *client) SendResponse(ctx context.Context, response *domain.Response) {
	if response.Err != nil {
		slog.ErrorContext(ctx, "Handler failed", "chatID", response.ChatID, logger.Err(response.Err))
		c.sendPlainText(ctx, response.ChatID, domain.UserMessage(response.Err))
		return
	}

	switch {
	case response.File != nil:
		c.sendFile(ctx, response.ChatID, response.File)
	case response.Image != nil:
		c.sendImage(ctx, response.ChatID, response.Image)
	default:
		c.sendText(ctx, response.ChatID, response.Text, response.Keyboard)
	}
}

// SendText sends a plain message and returns its Telegram message ID, so
// callers can correlate replies to it.
func (c *client) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("sending message: %w", err)
	}
	return sent.MessageID, nil
}

// SendPhoto sends a photo by Telegram file ID, so already-uploaded photos can
// be routed between chats without re-downloading. Returns the message ID.
func (c *client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	sent, err := c.bot.Send(photo)
	if err != nil {
		return 0, fmt.Errorf("sending photo: %w", err)
	}
	return sent.MessageID, nil
}

func (c *client) sendText(ctx context.Context, chatID int64, text string, keyboard *domain.Keyboard) {
	html := render.ToHTML(text)

	for _, chunk := range splitMessage(html, maxMessageLength) {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeHTML
		if keyboard != nil {
			msg.ReplyMarkup = buildReplyKeyboard(keyboard)
		}

		if _, err := c.bot.Send(msg); err != nil {
			// Model output is not always valid Telegram HTML; fall back to the
			// raw text rather than dropping the reply.
			slog.WarnContext(ctx, "Sending HTML message failed, retrying as plain text", "chatID", chatID, logger.Err(err))
			c.sendPlainText(ctx, chatID, chunk)
		}
	}
}

func (c *client) sendPlainText(ctx context.Context, chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := c.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			slog.ErrorContext(ctx, "Sending message failed", "chatID", chatID, logger.Err(err))
		}
	}
}

func (c *client) sendFile(ctx context.Context, chatID int64, file *domain.File) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: file.Name, Bytes: file.Data})
	if _, err := c.bot.Send(doc); err != nil {
		slog.ErrorContext(ctx, "Sending document failed", "chatID", chatID, "name", file.Name, logger.Err(err))
		c.sendPlainText(ctx, chatID, "⚠️ The file could not be delivered.")
	}
}

func (c *client) sendImage(ctx context.Context, chatID int64, image *domain.Image) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "image", Bytes: image.Data})
	photo.Caption = image.Caption
	if _, err := c.bot.Send(photo); err != nil {
		slog.ErrorContext(ctx, "Sending photo failed", "chatID", chatID, logger.Err(err))
		c.sendPlainText(ctx, chatID, "⚠️ The image could not be delivered.")
	}
}

// StartTyping shows the typing indicator; it expires on its own, no stop call
// is needed.
func (c *client) StartTyping(ctx context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := c.bot.Request(action); err != nil {
		slog.WarnContext(ctx, "Sending typing action failed", "chatID", chatID, logger.Err(err))
	}
}

// DownloadFile fetches file contents from Telegram into memory.
func (c *client) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("getting file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(c.token), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.bot.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.ErrorContext(ctx, "closing body", logger.Err(closeErr))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return data, nil
}

func buildReplyKeyboard(keyboard *domain.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard.Buttons))
	for _, row := range keyboard.Buttons {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

// splitMessage cuts text into Telegram-sized chunks, preferring to break at a
// line boundary.
func splitMessage(text string, limit int) []string {
	if text == "" {
		return []string{""}
	}

	var chunks []string
	for len(text) > limit {
		cut := limit
		if i := strings.LastIndex(text[:limit], "\n"); i > 0 {
			cut = i
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
