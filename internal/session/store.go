package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"internship-portal/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = stderrors.New("session not found")

// Store persists sessions. Writes are last-write-wins.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps each session as a JSON value under <prefix><id> with a
// TTL matching the session expiry.
type RedisStore struct {
	client redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) ttl(sess *Session) time.Duration {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

// Create stores a new session and fails if the id is already taken.
func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.NewSessionStoreError("create", err)
	}
	ok, err := s.client.SetNX(ctx, s.key(sess.ID), data, s.ttl(sess)).Result()
	if err != nil {
		return errors.NewSessionStoreError("create", err)
	}
	if !ok {
		return errors.NewSessionStoreError("create", fmt.Errorf("session id collision"))
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.NewSessionStoreError("get", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, errors.NewSessionStoreError("decode", err)
	}
	if sess.IsExpired(s.now()) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.NewSessionStoreError("save", err)
	}
	if err := s.client.Set(ctx, s.key(sess.ID), data, s.ttl(sess)).Err(); err != nil {
		return errors.NewSessionStoreError("save", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return errors.NewSessionStoreError("delete", err)
	}
	return nil
}
