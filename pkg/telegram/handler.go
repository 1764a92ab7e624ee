package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

type ChatService interface {
	GenerateResponse(ctx context.Context, chatID int64, prompt string)
	ClearChatHistory(ctx context.Context, chatID int64)
	SendGreeting(ctx context.Context, chatID int64)
	SendHelp(ctx context.Context, chatID int64)
	SendChatPrompt(ctx context.Context, chatID int64)
	SendBalance(ctx context.Context, chatID int64)
}

type DocumentService interface {
	CollectImage(ctx context.Context, chatID int64, fileID string)
	BuildPDF(ctx context.Context, chatID int64)
	DiscardImages(chatID int64)
	RequestPDF(ctx context.Context, chatID int64)
	ExtractText(ctx context.Context, chatID int64, fileID string, fileSize int)
}

type StyleService interface {
	SetStyle(ctx context.Context, chatID int64, args string)
	HasPendingStyle(chatID int64) bool
	StylizePhoto(ctx context.Context, chatID int64, fileID string)
	ClearPendingStyle(chatID int64)
}

type AdminService interface {
	IsAdmin(userID int64) bool
	SendContact(ctx context.Context, chatID int64)
	RequestContactMessage(ctx context.Context, chatID int64)
	AwaitingContactMessage(chatID int64) bool
	CancelContact(chatID int64)
	ForwardToAdmin(ctx context.Context, req domain.ContactRequest)
	RelayReply(ctx context.Context, repliedMessageID int, text string)
	RelayPhotoReply(ctx context.Context, repliedMessageID int, fileID, caption string)
	TrackChat(chatID int64)
	Broadcast(ctx context.Context, text string)
}

// handler is the update dispatcher: it classifies one incoming update by
// command keyword or attachment type and routes it to exactly one service
// call. The command set is closed; anything unrecognized gets a static reply.
type handler struct {
	chatService     ChatService
	documentService DocumentService
	styleService    StyleService
	adminService    AdminService
	responseCh      chan<- domain.Response
}

func NewHandler(
	chatService ChatService,
	documentService DocumentService,
	styleService StyleService,
	adminService AdminService,
	responseCh chan<- domain.Response,
) *handler {
	return &handler{
		chatService:     chatService,
		documentService: documentService,
		styleService:    styleService,
		adminService:    adminService,
		responseCh:      responseCh,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	if update.Message == nil {
		slog.WarnContext(ctx, "Ignoring update without a message")
		return
	}

	h.handleMessage(ctx, update.Message)
}

func (h *handler) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	h.adminService.TrackChat(chatID)

	switch {
	case msg.Document != nil:
		h.handleDocument(ctx, chatID, msg.Document)

	case msg.Photo != nil:
		h.handlePhoto(ctx, msg)

	case isCommand(msg.Text):
		h.handleCommand(ctx, msg)

	case msg.Text != "":
		h.handleText(ctx, msg)

	default:
		slog.WarnContext(ctx, "Ignoring unsupported message type", "chatID", chatID)
	}
}

func (h *handler) handleDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	if doc.MimeType != "application/pdf" {
		h.responseCh <- domain.Response{
			ChatID: chatID,
			Text:   "I can only read PDF documents.",
		}
		return
	}

	h.documentService.ExtractText(ctx, chatID, doc.FileID, doc.FileSize)
}

func (h *handler) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if len(msg.Photo) == 0 {
		slog.WarnContext(ctx, "Ignoring photo message without sizes", "chatID", chatID)
		return
	}

	// Telegram sends multiple resolutions, the largest is last.
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	if msg.From != nil && h.adminService.IsAdmin(msg.From.ID) && msg.ReplyToMessage != nil {
		h.adminService.RelayPhotoReply(ctx, msg.ReplyToMessage.MessageID, fileID, msg.Caption)
		return
	}

	if h.styleService.HasPendingStyle(chatID) {
		h.styleService.StylizePhoto(ctx, chatID, fileID)
		return
	}

	h.documentService.CollectImage(ctx, chatID, fileID)
}

func (h *handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd, args := splitCommand(msg.Text)

	switch cmd {
	case "/start":
		h.chatService.SendGreeting(ctx, chatID)

	case "/help":
		h.chatService.SendHelp(ctx, chatID)

	case "/chat":
		h.chatService.SendChatPrompt(ctx, chatID)

	case "/pdf", "/done":
		h.documentService.BuildPDF(ctx, chatID)

	case "/readpdf":
		h.documentService.RequestPDF(ctx, chatID)

	case "/style":
		h.styleService.SetStyle(ctx, chatID, args)

	case "/clear":
		h.documentService.DiscardImages(chatID)
		h.styleService.ClearPendingStyle(chatID)
		h.adminService.CancelContact(chatID)
		h.chatService.ClearChatHistory(ctx, chatID)

	case "/admin":
		h.adminService.SendContact(ctx, chatID)

	case "/contact_admin":
		h.adminService.RequestContactMessage(ctx, chatID)

	case "/broadcast":
		h.handleBroadcast(ctx, msg)

	case "/balance":
		h.chatService.SendBalance(ctx, chatID)

	default:
		h.responseCh <- domain.Response{ChatID: chatID, Err: domain.ErrUnknownCommand}
	}
}

func (h *handler) handleBroadcast(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.From == nil || !h.adminService.IsAdmin(msg.From.ID) {
		h.responseCh <- domain.Response{ChatID: chatID, Text: "This command is for the admin only."}
		return
	}

	if msg.ReplyToMessage == nil || msg.ReplyToMessage.Text == "" {
		h.responseCh <- domain.Response{ChatID: chatID, Text: "Reply to the message you want to broadcast with /broadcast."}
		return
	}

	h.adminService.Broadcast(ctx, msg.ReplyToMessage.Text)
}

func (h *handler) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.From != nil && h.adminService.IsAdmin(msg.From.ID) && msg.ReplyToMessage != nil {
		h.adminService.RelayReply(ctx, msg.ReplyToMessage.MessageID, msg.Text)
		return
	}

	if h.adminService.AwaitingContactMessage(chatID) {
		req := domain.ContactRequest{ChatID: chatID, Text: msg.Text}
		if msg.From != nil {
			req.UserID = msg.From.ID
			req.Name = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
			req.Username = msg.From.UserName
		}
		h.adminService.ForwardToAdmin(ctx, req)
		return
	}

	h.chatService.GenerateResponse(ctx, chatID, msg.Text)
}

func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// splitCommand normalizes "/Cmd@BotName args" into "/cmd" and "args".
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)

	cmd, args, _ := strings.Cut(text, " ")
	cmd = strings.ToLower(strings.Split(cmd, "@")[0])

	return cmd, strings.TrimSpace(args)
}
