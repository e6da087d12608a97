package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"libris/internal/domain"
)

// Store is a read cache for the catalog's hot lookups: the genre list and
// title-search results. Misses and redis errors both fall through to the DB.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store { return &Store{rdb: rdb, ttl: ttl} }

func genresKey() string { return "catalog:genres" }

func searchKey(q, genre string, limit, offset int) string {
	return fmt.Sprintf("catalog:search:%s:%s:%d:%d", q, genre, limit, offset)
}

func (s *Store) GetGenres(ctx context.Context) ([]string, bool) {
	b, err := s.rdb.Get(ctx, genresKey()).Bytes()
	if err != nil {
		return nil, false
	}
	var genres []string
	if err := json.Unmarshal(b, &genres); err != nil {
		return nil, false
	}
	return genres, true
}

func (s *Store) SetGenres(ctx context.Context, genres []string) {
	b, _ := json.Marshal(genres)
	_ = s.rdb.Set(ctx, genresKey(), b, s.ttl).Err()
}

type searchEntry struct {
	Books []domain.Book `json:"books"`
	Total int64         `json:"total"`
}

func (s *Store) GetSearch(ctx context.Context, q, genre string, limit, offset int) ([]domain.Book, int64, bool) {
	b, err := s.rdb.Get(ctx, searchKey(q, genre, limit, offset)).Bytes()
	if err != nil {
		return nil, 0, false
	}
	var e searchEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, 0, false
	}
	return e.Books, e.Total, true
}

func (s *Store) SetSearch(ctx context.Context, q, genre string, limit, offset int, books []domain.Book, total int64) {
	b, _ := json.Marshal(searchEntry{Books: books, Total: total})
	_ = s.rdb.Set(ctx, searchKey(q, genre, limit, offset), b, s.ttl).Err()
}

// Invalidate drops the genre list and every cached search page after a
// catalog write. Scan errors leave entries to age out on their TTL.
func (s *Store) Invalidate(ctx context.Context) {
	_ = s.rdb.Del(ctx, genresKey()).Err()

	iter := s.rdb.Scan(ctx, 0, "catalog:search:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = s.rdb.Del(ctx, iter.Val()).Err()
	}
}
