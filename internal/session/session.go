package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("会话不存在或已过期")

// Session 网关会话，保存上游签发的 bearer token
type Session struct {
	ID    string      `json:"id"`
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Store 基于 redis 的会话存储，键为 session_<id>
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return fmt.Sprintf("session_%s", id)
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(sess.ID), data, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess := &Session{}
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("会话 %s 数据损坏: %w", id, err)
	}
	return sess, nil
}

// Delete 删除不存在的会话不视为错误
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, key(id)).Err()
}
