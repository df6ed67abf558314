package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"messenger/config"
)

// TypingStore хранит эфемерные флаги "A печатает B". Ключ - пара
// (sender, receiver), поэтому получатель может опросить статус
// собеседника, не зная ничего про его сессию. TTL на сервере страхует
// от клиента, который не прислал isTyping=false.
type TypingStore interface {
	SetTyping(ctx context.Context, senderID, receiverID int64, isTyping bool) error
	IsTyping(ctx context.Context, senderID, receiverID int64) (bool, error)
}

func typingKey(senderID, receiverID int64) string {
	return fmt.Sprintf("typing:%d:%d", senderID, receiverID)
}

func typingTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.Typing.TTLSeconds > 0 {
		return time.Duration(config.AppConfig.Typing.TTLSeconds) * time.Second
	}
	return 5 * time.Second
}

// RedisTypingStore - основная реализация поверх глобального RedisClient
type RedisTypingStore struct{}

func NewRedisTypingStore() *RedisTypingStore {
	return &RedisTypingStore{}
}

func (s *RedisTypingStore) SetTyping(ctx context.Context, senderID, receiverID int64, isTyping bool) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not available")
	}
	key := typingKey(senderID, receiverID)
	if !isTyping {
		return RedisClient.Del(ctx, key).Err()
	}
	return RedisClient.Set(ctx, key, "1", typingTTL()).Err()
}

func (s *RedisTypingStore) IsTyping(ctx context.Context, senderID, receiverID int64) (bool, error) {
	if RedisClient == nil {
		return false, fmt.Errorf("redis not available")
	}
	_, err := RedisClient.Get(ctx, typingKey(senderID, receiverID)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryTypingStore - реализация в памяти с тем же decay-поведением,
// используется в тестах и как fallback без Redis
type MemoryTypingStore struct {
	mu    sync.Mutex
	flags map[string]time.Time // ключ -> дедлайн

	// подменяется в тестах
	now func() time.Time
}

func NewMemoryTypingStore() *MemoryTypingStore {
	return &MemoryTypingStore{
		flags: make(map[string]time.Time),
		now:   time.Now,
	}
}

func (s *MemoryTypingStore) SetTyping(_ context.Context, senderID, receiverID int64, isTyping bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := typingKey(senderID, receiverID)
	if !isTyping {
		delete(s.flags, key)
		return nil
	}
	s.flags[key] = s.now().Add(typingTTL())
	return nil
}

func (s *MemoryTypingStore) IsTyping(_ context.Context, senderID, receiverID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := typingKey(senderID, receiverID)
	deadline, ok := s.flags[key]
	if !ok {
		return false, nil
	}
	if s.now().After(deadline) {
		delete(s.flags, key)
		return false, nil
	}
	return true, nil
}
