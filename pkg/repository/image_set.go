package repository

import (
	"sync"
	"time"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

type imageSetEntry struct {
	images     [][]byte
	lastUpdate time.Time
}

// imageSetRepository holds the pending image set per chat: the ordered photo
// buffers accumulated before a /pdf finalization. State is process-local and
// non-durable; abandoned sets expire lazily after ttl, checked on access the
// same way the chat repository does it.
type imageSetRepository struct {
	mu        sync.Mutex
	sets      map[int64]*imageSetEntry
	ttl       time.Duration
	maxImages int
}

func NewImageSetRepository(ttl time.Duration, maxImages int) *imageSetRepository {
	return &imageSetRepository{
		sets:      make(map[int64]*imageSetEntry),
		ttl:       ttl,
		maxImages: maxImages,
	}
}

// Append adds an image to the chat's set, preserving arrival order, and
// returns the new count. Appending beyond the image cap fails with
// ErrTooManyImages and leaves the set unchanged.
func (r *imageSetRepository) Append(chatID int64, image []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.liveEntry(chatID)
	if entry == nil {
		entry = &imageSetEntry{}
		r.sets[chatID] = entry
	}

	if len(entry.images) >= r.maxImages {
		return len(entry.images), domain.ErrTooManyImages
	}

	entry.images = append(entry.images, image)
	entry.lastUpdate = time.Now()

	return len(entry.images), nil
}

// Get returns a copy of the chat's pending images in arrival order.
func (r *imageSetRepository) Get(chatID int64) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.liveEntry(chatID)
	if entry == nil {
		return nil
	}

	images := make([][]byte, len(entry.images))
	copy(images, entry.images)
	return images
}

func (r *imageSetRepository) Clear(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sets, chatID)
}

// liveEntry evicts an expired set before returning it. Callers must hold mu.
func (r *imageSetRepository) liveEntry(chatID int64) *imageSetEntry {
	entry, ok := r.sets[chatID]
	if !ok {
		return nil
	}

	if r.ttl > 0 && time.Since(entry.lastUpdate) > r.ttl {
		delete(r.sets, chatID)
		return nil
	}

	return entry
}
