package repository

import (
	"sync"

	"github.com/jakhongir/openrouter-telegram-bot/pkg/domain"
)

// stateRepository holds per-chat dialog flags. Updates for one chat are
// serialized upstream by the listener, so read-modify-write sequences on a
// single chat's state do not race.
type stateRepository struct {
	mu    sync.RWMutex
	state map[int64]domain.State
}

func NewStateRepository() *stateRepository {
	return &stateRepository{
		state: make(map[int64]domain.State),
	}
}

func (s *stateRepository) Save(chatID int64, state domain.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state[chatID] = state
}

func (s *stateRepository) Get(chatID int64) (domain.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.state[chatID]
	return state, ok
}

func (s *stateRepository) Clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.state, chatID)
}
