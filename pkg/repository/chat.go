package repository

import (
	"sync"
	"time"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

type chatEntry struct {
	chat       domain.Chat
	lastUpdate time.Time
}

// chatRepository keeps conversation history in memory. Expired chats are
// evicted lazily on access; there is no background sweeper and nothing
// survives a restart.
type chatRepository struct {
	mu    sync.Mutex
	chats map[int64]chatEntry
	ttl   time.Duration
}

func NewChatRepository(ttl time.Duration) *chatRepository {
	return &chatRepository{
		chats: make(map[int64]chatEntry),
		ttl:   ttl,
	}
}

func (c *chatRepository) Save(chat domain.Chat) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.chats[chat.ID] = chatEntry{
		chat:       chat,
		lastUpdate: time.Now(),
	}
}

func (c *chatRepository) GetByID(chatID int64) (domain.Chat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.chats[chatID]
	if !ok {
		return domain.Chat{}, false
	}

	if c.ttl > 0 && time.Since(entry.lastUpdate) > c.ttl {
		delete(c.chats, chatID)
		return domain.Chat{}, false
	}

	return entry.chat, true
}

func (c *chatRepository) Clear(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.chats, chatID)
}
