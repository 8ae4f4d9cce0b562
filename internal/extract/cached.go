package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/readiz/internal/cache"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/reading"
)

// CachedExtractor memoises document and URL extractions. Concurrent
// extractions of the same content share one call to the inner extractor.
type CachedExtractor struct {
	inner PassageExtractor
	cache cache.PassageCache
	sf    singleflight.Group
}

var _ PassageExtractor = (*CachedExtractor)(nil)

// Cached wraps inner with c. Pasted text always goes straight to inner.
func Cached(inner PassageExtractor, c cache.PassageCache) *CachedExtractor {
	return &CachedExtractor{inner: inner, cache: c}
}

func (c *CachedExtractor) Extract(ctx context.Context, content reading.MaterialContent) (string, error) {
	key, ok := CacheKey(content)
	if !ok {
		return c.inner.Extract(ctx, content)
	}

	if text, hit := c.lookup(ctx, key); hit {
		return text, nil
	}

	result, err, shared := c.sf.Do(key, func() (any, error) {
		// Another caller may have filled it while we waited.
		if text, hit := c.lookup(ctx, key); hit {
			return text, nil
		}

		text, err := c.inner.Extract(ctx, content)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			if err := c.cache.Set(ctx, key, text); err != nil {
				logger.Get().Warn("passage cache write failed", zap.Error(err))
			}
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		logger.Get().Debug("extraction shared", zap.String("key", key))
	}
	return result.(string), nil
}

// lookup treats cache errors as misses.
func (c *CachedExtractor) lookup(ctx context.Context, key string) (string, bool) {
	text, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.Get().Warn("passage cache read failed", zap.Error(err))
		return "", false
	}
	return text, hit
}

// CacheKey returns the digest that identifies content in the passage cache.
// Text content has no key.
func CacheKey(content reading.MaterialContent) (string, bool) {
	h := sha256.New()
	switch content.Kind() {
	case reading.KindPDF, reading.KindDOCX:
		f := content.File()
		if f == nil {
			return "", false
		}
		h.Write([]byte(content.Kind()))
		h.Write([]byte{0})
		h.Write(f.Data)
	case reading.KindURL:
		h.Write([]byte(content.Kind()))
		h.Write([]byte{0})
		h.Write([]byte(strings.TrimSpace(content.URL())))
	default:
		return "", false
	}
	return string(content.Kind()) + ":" + hex.EncodeToString(h.Sum(nil)), true
}
