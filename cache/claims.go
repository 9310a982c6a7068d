package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ClaimStore holds occurrence timestamps (unix ms) per normalized claim.
// Implementations evict entries that have not been written for a while so
// the set of tracked claims stays bounded.
type ClaimStore interface {
	Get(ctx context.Context, claim string) ([]int64, error)
	Put(ctx context.Context, claim string, stamps []int64) error
	Evict(ctx context.Context, claim string) error
}

// MemoryClaimStore is an in-process LRU whose entries expire ttl after the
// last Put. Capacity bounds memory even when ttl has not elapsed.
type MemoryClaimStore struct {
	lru *expirable.LRU[string, []int64]
}

func NewMemoryClaimStore(size int, ttl time.Duration) *MemoryClaimStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryClaimStore{lru: expirable.NewLRU[string, []int64](size, nil, ttl)}
}

func (s *MemoryClaimStore) Get(_ context.Context, claim string) ([]int64, error) {
	stamps, ok := s.lru.Peek(claim)
	if !ok {
		return nil, nil
	}
	return append([]int64(nil), stamps...), nil
}

func (s *MemoryClaimStore) Put(_ context.Context, claim string, stamps []int64) error {
	s.lru.Add(claim, append([]int64(nil), stamps...))
	return nil
}

func (s *MemoryClaimStore) Evict(_ context.Context, claim string) error {
	s.lru.Remove(claim)
	return nil
}

func (s *MemoryClaimStore) Len() int {
	return s.lru.Len()
}
