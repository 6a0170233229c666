package state

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps conversation state in process memory. Suitable for tests
// and single-instance deployments; state does not survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	convs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{convs: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, senderID string) (*Conversation, error) {
	s.mu.RLock()
	raw, ok := s.convs[senderID]
	s.mu.RUnlock()

	if !ok {
		return New(senderID), nil
	}

	conv := &Conversation{}
	if err := json.Unmarshal(raw, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *MemoryStore) Save(_ context.Context, conv *Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.convs[conv.SenderID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.convs = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}
