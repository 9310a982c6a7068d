package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/grlcodee/credify.ai/cache"
)

const (
	volumeWindow    = 5 * time.Minute
	volumeThreshold = 3
)

// ClaimRetention is how long a claim store needs to keep timestamps.
const ClaimRetention = volumeWindow

// VolumeDetector flags claims seen more than volumeThreshold times within
// volumeWindow. Get, prune and put run under one lock so concurrent
// submissions are counted exactly once each.
type VolumeDetector struct {
	mu    sync.Mutex
	store cache.ClaimStore
	now   func() time.Time
}

func NewVolumeDetector(store cache.ClaimStore) *VolumeDetector {
	return &VolumeDetector{store: store, now: time.Now}
}

// NormalizeClaim lowercases and trims a claim for frequency tracking.
func NormalizeClaim(claim string) string {
	return strings.ToLower(strings.TrimSpace(claim))
}

// Observe records one occurrence of claim and reports whether it is now a
// spike.
func (d *VolumeDetector) Observe(ctx context.Context, claim string) (bool, error) {
	key := NormalizeClaim(claim)

	d.mu.Lock()
	defer d.mu.Unlock()

	stamps, err := d.store.Get(ctx, key)
	if err != nil {
		return false, err
	}

	now := d.now()
	cutoff := now.Add(-volumeWindow).UnixMilli()
	kept := stamps[:0:0]
	for _, ts := range stamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now.UnixMilli())

	if err := d.store.Put(ctx, key, kept); err != nil {
		return false, err
	}
	return len(kept) > volumeThreshold, nil
}
