package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

type AdminMessenger interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (int, error)
}

// adminService covers the admin surface: the static contact string, the
// forward-a-message-to-the-admin flow, routing admin replies back to users,
// and broadcasts. Everything past the contact string requires ADMIN_CHAT_ID.
type adminService struct {
	contact     string
	adminChatID int64
	stateRepo   StateRepository
	messenger   AdminMessenger
	responseCh  chan<- domain.Response

	mu           sync.Mutex
	replyTargets map[int]int64
	knownChats   map[int64]struct{}
}

func NewAdminService(
	contact string,
	adminChatID int64,
	stateRepo StateRepository,
	messenger AdminMessenger,
	responseCh chan<- domain.Response,
) *adminService {
	return &adminService{
		contact:      contact,
		adminChatID:  adminChatID,
		stateRepo:    stateRepo,
		messenger:    messenger,
		responseCh:   responseCh,
		replyTargets: make(map[int]int64),
		knownChats:   make(map[int64]struct{}),
	}
}

func (a *adminService) IsAdmin(userID int64) bool {
	return a.adminChatID != 0 && userID == a.adminChatID
}

// SendContact returns the statically configured contact string.
func (a *adminService) SendContact(ctx context.Context, chatID int64) {
	text := "📩 Contact the admin: " + a.contact
	if a.adminChatID != 0 {
		text += "\nOr use /contact_admin to send a message right from here."
	}

	a.responseCh <- domain.Response{ChatID: chatID, Text: text}
}

// RequestContactMessage arms the forward-to-admin flow: the chat's next text
// message goes to the admin instead of the AI.
func (a *adminService) RequestContactMessage(ctx context.Context, chatID int64) {
	if a.adminChatID == 0 {
		a.SendContact(ctx, chatID)
		return
	}

	state, _ := a.stateRepo.Get(chatID)
	state.AwaitingContact = true
	a.stateRepo.Save(chatID, state)

	a.responseCh <- domain.Response{
		ChatID: chatID,
		Text:   "Write the message you want to send to the admin:",
	}
}

func (a *adminService) AwaitingContactMessage(chatID int64) bool {
	state, ok := a.stateRepo.Get(chatID)
	return ok && state.AwaitingContact
}

// CancelContact disarms the flow without a reply; used by /clear.
func (a *adminService) CancelContact(chatID int64) {
	state, ok := a.stateRepo.Get(chatID)
	if !ok || !state.AwaitingContact {
		return
	}
	state.AwaitingContact = false
	a.stateRepo.Save(chatID, state)
}

// ForwardToAdmin sends the user's message to the admin chat and remembers the
// sent message ID, so a reply to that message finds its way back.
func (a *adminService) ForwardToAdmin(ctx context.Context, req domain.ContactRequest) {
	state, _ := a.stateRepo.Get(req.ChatID)
	state.AwaitingContact = false
	a.stateRepo.Save(req.ChatID, state)

	card := fmt.Sprintf(
		"📩 Message for the admin\n\nFrom: %s (id: %d)\nUsername: @%s\n\n%s",
		req.Name, req.UserID, lo.Ternary(req.Username != "", req.Username, "—"), req.Text,
	)

	messageID, err := a.messenger.SendText(ctx, a.adminChatID, card)
	if err != nil {
		a.responseCh <- domain.Response{ChatID: req.ChatID, Err: fmt.Errorf("forwarding message to admin: %w", err)}
		return
	}

	a.mu.Lock()
	a.replyTargets[messageID] = req.ChatID
	a.mu.Unlock()

	a.responseCh <- domain.Response{
		ChatID: req.ChatID,
		Text:   "✅ Your message has been sent to the admin.",
	}
}

// RelayReply routes the admin's reply-to-message back to the original user.
func (a *adminService) RelayReply(ctx context.Context, repliedMessageID int, text string) {
	a.mu.Lock()
	target, ok := a.replyTargets[repliedMessageID]
	a.mu.Unlock()

	if !ok {
		a.responseCh <- domain.Response{
			ChatID: a.adminChatID,
			Text:   "No matching user for that reply. Reply directly to a forwarded message.",
		}
		return
	}

	if _, err := a.messenger.SendText(ctx, target, "📬 Reply from the admin:\n\n"+text); err != nil {
		a.responseCh <- domain.Response{ChatID: a.adminChatID, Err: fmt.Errorf("relaying admin reply: %w", err)}
		return
	}

	a.responseCh <- domain.Response{ChatID: a.adminChatID, Text: "Reply delivered."}
}

// RelayPhotoReply routes a photo the admin replied with back to the original
// user. The photo travels by Telegram file ID, its bytes never pass through
// this process.
func (a *adminService) RelayPhotoReply(ctx context.Context, repliedMessageID int, fileID, caption string) {
	a.mu.Lock()
	target, ok := a.replyTargets[repliedMessageID]
	a.mu.Unlock()

	if !ok {
		a.responseCh <- domain.Response{
			ChatID: a.adminChatID,
			Text:   "No matching user for that reply. Reply directly to a forwarded message.",
		}
		return
	}

	if caption == "" {
		caption = "📬 From the admin"
	}

	if _, err := a.messenger.SendPhoto(ctx, target, fileID, caption); err != nil {
		a.responseCh <- domain.Response{ChatID: a.adminChatID, Err: fmt.Errorf("relaying admin photo reply: %w", err)}
		return
	}

	a.responseCh <- domain.Response{ChatID: a.adminChatID, Text: "Reply delivered."}
}

// TrackChat records a chat for later broadcasts. The admin's own chat is not
// tracked.
func (a *adminService) TrackChat(chatID int64) {
	if a.adminChatID == 0 || chatID == a.adminChatID {
		return
	}

	a.mu.Lock()
	a.knownChats[chatID] = struct{}{}
	a.mu.Unlock()
}

// Broadcast sends text to every chat seen since startup. Delivery failures
// are logged and skipped, not retried.
func (a *adminService) Broadcast(ctx context.Context, text string) {
	a.mu.Lock()
	chats := lo.Keys(a.knownChats)
	a.mu.Unlock()

	if len(chats) == 0 {
		a.responseCh <- domain.Response{ChatID: a.adminChatID, Text: "No known chats to broadcast to yet."}
		return
	}

	var sent int
	for _, chatID := range chats {
		if _, err := a.messenger.SendText(ctx, chatID, "[Admin broadcast]\n\n"+text); err != nil {
			slog.WarnContext(ctx, "Broadcast delivery failed", "chatID", chatID, "err", err)
			continue
		}
		sent++
	}

	a.responseCh <- domain.Response{
		ChatID: a.adminChatID,
		Text:   fmt.Sprintf("Broadcast sent to %d of %d chats.", sent, len(chats)),
	}
}
