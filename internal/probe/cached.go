package probe

import (
	"context"
	"fmt"
	"path/filepath"

	"combine-videos/internal/cache"
	"combine-videos/internal/filesystem"
	"combine-videos/internal/logging"
	"combine-videos/internal/metrics"
)

// RawProber is a Prober that can also return the undecoded document, which
// is what gets cached.
type RawProber interface {
	Prober
	Raw(ctx context.Context, path string) ([]byte, error)
}

// Store persists raw probe documents keyed by file identity.
type Store interface {
	Get(ctx context.Context, key cache.Key) ([]byte, bool, error)
	Put(ctx context.Context, key cache.Key, data []byte) error
}

// Cached serves probes from a Store when the file is unchanged since it was
// last probed. Only successful probes are stored.
type Cached struct {
	next  RawProber
	store Store
}

// NewCached wraps next with store.
func NewCached(next RawProber, store Store) *Cached {
	return &Cached{next: next, store: store}
}

// KeyFor builds the cache key for a file from its absolute path, size and
// modification time.
func KeyFor(path string) (cache.Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return cache.Key{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := filesystem.Stat(abs)
	if err != nil {
		return cache.Key{}, err
	}
	return cache.Key{
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime().UnixNano(),
	}, nil
}

// Probe implements Prober.
func (c *Cached) Probe(ctx context.Context, path string) (*Result, error) {
	key, err := KeyFor(path)
	if err != nil {
		// Let ffprobe report the real problem.
		logging.Debug("probe cache: cannot stat %s: %v", path, err)
		return c.next.Probe(ctx, path)
	}

	if data, ok, err := c.store.Get(ctx, key); err != nil {
		logging.Warn("probe cache lookup failed for %s: %v", path, err)
	} else if ok {
		if res, err := Decode(data); err == nil {
			logging.Debug("probe cache hit: %s", path)
			metrics.ProbeCacheHits.Inc()
			return res, nil
		}
		logging.Debug("probe cache entry for %s is corrupt, probing again", path)
	}

	metrics.ProbeCacheMisses.Inc()
	data, err := c.next.Raw(ctx, path)
	if err != nil {
		return nil, err
	}
	res, err := Decode(data)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, key, data); err != nil {
		logging.Warn("failed to cache probe result for %s: %v", path, err)
	}
	return res, nil
}
