package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
	"github.com/jakhongir/openrouter-telegram-bot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	SendResponse(ctx context.Context, response *domain.Response)
	StartTyping(ctx context.Context, chatID int64)
}

// telegramUpdateListener routes incoming updates into per-chat FIFO queues
// and fans handler responses back in over responseCh. Updates belonging to
// one chat are applied strictly in arrival order: PDF page order depends on
// photo arrival order, so same-chat updates must never be reordered. A plain
// per-chat mutex is not enough for that (goroutines can reach Lock out of
// order), hence the explicit queue with a single drain goroutine per chat.
// Distinct chats proceed concurrently.
type telegramUpdateListener struct {
	client        TelegramClient
	authenticator Authenticator
	handler       Handler
	responseCh    <-chan domain.Response

	// chatQueues is touched only from the Start goroutine.
	chatQueues map[int64]*chatQueue
	wg         sync.WaitGroup
}

// chatQueue is a chat's pending updates plus whether a drain goroutine is
// currently working it.
type chatQueue struct {
	mu      sync.Mutex
	pending []tgbotapi.Update
	active  bool
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
	responseCh <-chan domain.Response,
) (*telegramUpdateListener, error) {
	return &telegramUpdateListener{
		client:        client,
		authenticator: authenticator,
		handler:       handler,
		responseCh:    responseCh,
		chatQueues:    make(map[int64]*chatQueue),
	}, nil
}

func (t *telegramUpdateListener) Name() string { return "telegram_update_listener" }

func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			return t.drain(ctx)
		case update := <-updates:
			t.dispatch(ctx, update)
		case response := <-t.responseCh:
			t.client.SendResponse(ctx, &response)
		}
	}
}

// dispatch appends the update to its chat's queue. Appends happen on the
// single Start goroutine, so queue order is Telegram's delivery order; the
// drain goroutine takes updates front to back, one at a time per chat.
func (t *telegramUpdateListener) dispatch(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		slog.WarnContext(logger.ContextWithRequestID(ctx, int64(update.UpdateID)), "Received unknown update type")
		return
	}

	q := t.chatQueues[update.Message.Chat.ID]
	if q == nil {
		q = &chatQueue{}
		t.chatQueues[update.Message.Chat.ID] = q
	}

	q.mu.Lock()
	q.pending = append(q.pending, update)
	if q.active {
		q.mu.Unlock()
		return
	}
	q.active = true
	q.mu.Unlock()

	t.wg.Add(1)
	go t.drainQueue(ctx, q)
}

// drainQueue processes one chat's updates in queue order and exits once the
// queue is empty; dispatch starts a fresh goroutine when more arrive.
func (t *telegramUpdateListener) drainQueue(ctx context.Context, q *chatQueue) {
	defer t.wg.Done()

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.active = false
			q.mu.Unlock()
			return
		}
		update := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		t.processUpdate(ctx, &update)
	}
}

// drain keeps consuming responses until in-flight handlers finish, so a
// handler blocked on responseCh can always complete during shutdown.
func (t *telegramUpdateListener) drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	for {
		select {
		case response := <-t.responseCh:
			t.client.SendResponse(ctx, &response)
		case <-done:
			return nil
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, int64(update.UpdateID))

	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	// A handler fault must never take down the chat's queue; the user gets a
	// generic error reply instead.
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Recovered from handler panic", "chatID", chatID, "panic", r)
			t.client.SendResponse(ctx, &domain.Response{ChatID: chatID, Err: fmt.Errorf("handler panic: %v", r)})
		}
	}()

	slog.InfoContext(ctx, "Processing update", "chatID", chatID, "userID", userID)

	if !t.authenticator.IsAuthorized(userID) {
		slog.WarnContext(ctx, "Unauthorized access attempt", "userID", userID)
		t.client.SendResponse(ctx, &domain.Response{
			ChatID: chatID,
			Text:   fmt.Sprintf("User %d is not authorized", userID),
		})
		return
	}

	t.client.StartTyping(ctx, chatID)

	t.handler.HandleUpdate(ctx, update)
}
