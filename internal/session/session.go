// Package session keeps per-browser back office state in Redis: one-shot
// flash messages and the last search of each grid.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/brandadmin/internal/grid"
)

// FlashType is the severity of a flash message.
type FlashType string

const (
	FlashSuccess FlashType = "success"
	FlashError   FlashType = "error"
	FlashWarning FlashType = "warning"
	FlashInfo    FlashType = "info"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Type    FlashType `json:"type"`
	Message string    `json:"message"`
}

// Store is a Redis-backed session store. Every write extends the session's
// lifetime to ttl.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewStore returns a store using client. A zero ttl defaults to two hours.
func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{client: client, ttl: ttl, prefix: "brandadmin:session:"}
}

func (s *Store) flashKey(sid string) string  { return s.prefix + sid + ":flashes" }
func (s *Store) filterKey(sid string) string { return s.prefix + sid + ":filters" }

// AddFlash queues a flash message for the session.
func (s *Store) AddFlash(ctx context.Context, sid string, typ FlashType, message string) error {
	data, err := json.Marshal(Flash{Type: typ, Message: message})
	if err != nil {
		return fmt.Errorf("marshal flash: %w", err)
	}
	key := s.flashKey(sid)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.RPush(ctx, key, data)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add flash: %w", err)
	}
	return nil
}

// PopFlashes returns and clears the queued flash messages, oldest first.
func (s *Store) PopFlashes(ctx context.Context, sid string) ([]Flash, error) {
	key := s.flashKey(sid)
	var lrange *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		lrange = p.LRange(ctx, key, 0, -1)
		p.Del(ctx, key)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pop flashes: %w", err)
	}

	raw := lrange.Val()
	out := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// SaveFilters stores the search of one grid.
func (s *Store) SaveFilters(ctx context.Context, sid string, f grid.Filters) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}
	key := s.filterKey(sid)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, f.GridID, data)
		p.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save %s filters: %w", f.GridID, err)
	}
	return nil
}

// LoadFilters returns the stored search of gridID. ok is false when none
// was stored or the stored value is unreadable.
func (s *Store) LoadFilters(ctx context.Context, sid, gridID string) (f grid.Filters, ok bool, err error) {
	data, err := s.client.HGet(ctx, s.filterKey(sid), gridID).Bytes()
	if errors.Is(err, redis.Nil) {
		return grid.Filters{}, false, nil
	}
	if err != nil {
		return grid.Filters{}, false, fmt.Errorf("load %s filters: %w", gridID, err)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return grid.Filters{}, false, nil
	}
	return f, true, nil
}

// Touch extends the session's lifetime.
func (s *Store) Touch(ctx context.Context, sid string) error {
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Expire(ctx, s.flashKey(sid), s.ttl)
		p.Expire(ctx, s.filterKey(sid), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
