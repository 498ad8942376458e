package chatbot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// SessionStore is the durable per-phone-number session record.
type SessionStore interface {
	GetOrCreate(ctx context.Context, phone string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

// RedisSessionStore keeps sessions as JSON values in Redis. Keys carry no
// expiry: sessions are reset after a booking, never deleted, so a returning
// user picks up the same record.
type RedisSessionStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

// NewRedisSessionStore creates a store on the given client.
func NewRedisSessionStore(client *redis.Client, tracer trace.Tracer) *RedisSessionStore {
	if client == nil {
		panic("chatbot: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("bookingbot.internal.chatbot.sessions")
	}
	return &RedisSessionStore{redis: client, tracer: tracer}
}

var _ SessionStore = (*RedisSessionStore)(nil)

// GetOrCreate loads the session for a normalized phone number, creating a
// fresh one at the start step when none exists yet.
func (s *RedisSessionStore) GetOrCreate(ctx context.Context, phone string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "chatbot.session_load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(phone)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewSession(phone), nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("chatbot: load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chatbot: decode session: %w", err)
	}
	session.Phone = phone
	return &session, nil
}

// Save persists the session.
func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	ctx, span := s.tracer.Start(ctx, "chatbot.session_save")
	defer span.End()

	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chatbot: encode session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(session.Phone), data, 0).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chatbot: persist session: %w", err)
	}
	return nil
}

func sessionKey(phone string) string {
	return fmt.Sprintf("chat_session:%s", phone)
}
