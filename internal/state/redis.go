package state

import (
	"context"
	"fmt"
	"time"

	"github.com/VaclavObornik/prg-chatbot/internal/redis"
)

// RedisStore persists conversation state in Redis as JSON values with an
// optional TTL, letting idle conversations expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. ttl of zero keeps state
// forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func stateKey(senderID string) string {
	return fmt.Sprintf("conv:%s", senderID)
}

func (s *RedisStore) Load(ctx context.Context, senderID string) (*Conversation, error) {
	conv := &Conversation{}
	err := s.client.GetJSON(ctx, stateKey(senderID), conv)
	if err != nil {
		if redis.IsNil(err) {
			return New(senderID), nil
		}
		return nil, fmt.Errorf("failed to load conversation state: %w", err)
	}
	return conv, nil
}

func (s *RedisStore) Save(ctx context.Context, conv *Conversation) error {
	if err := s.client.Set(ctx, stateKey(conv.SenderID), conv, s.ttl); err != nil {
		return fmt.Errorf("failed to save conversation state: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	// The Redis client is shared; its owner closes it.
	return nil
}
