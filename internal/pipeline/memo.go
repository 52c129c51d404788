package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MikeSquared-Agency/wrapped/internal/cache"
)

// Memo caches stage results in a cache.Store. Values are stored JSON-encoded
// and decoded into fresh values on every call, so no two callers ever share a
// result. Concurrent calls for the same key run the stage once.
type Memo struct {
	store  cache.Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewMemo wraps store. Entries live for ttl; zero or less means no expiry.
func NewMemo(store cache.Store, ttl time.Duration, logger *slog.Logger) *Memo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memo{store: store, ttl: ttl, logger: logger}
}

// ParseKey identifies a parse by payload content, file name and timezone.
func ParseKey(raw []byte, filename, timezone string) string {
	sum := sha256.Sum256(raw)
	return "parse:" + hex.EncodeToString(sum[:]) + ":" + filename + ":" + timezone
}

// AnnotateKey identifies an annotation of a parse under a given tokenizer.
func AnnotateKey(parseKey, tokenizer string) string {
	return parseKey + ":rows:" + tokenizer
}

// remember returns the cached value for key, or computes, stores and returns it.
// Cache failures are logged and never fail the call.
func remember[T any](ctx context.Context, m *Memo, key string, compute func() (T, error)) (T, error) {
	var zero T
	if m == nil {
		return compute()
	}

	if b, ok, err := m.store.Get(ctx, key); err != nil {
		m.logger.Warn("cache read failed", "store", m.store.Name(), "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			m.logger.Debug("cache hit", "key", shortKey(key))
			return v, nil
		}
		m.logger.Warn("discarding undecodable cache entry", "key", shortKey(key))
	}

	encoded, err, shared := m.group.Do(key, func() (interface{}, error) {
		v, err := compute()
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", shortKey(key), err)
		}
		if err := m.store.Set(ctx, key, b, m.ttl); err != nil {
			m.logger.Warn("cache write failed", "store", m.store.Name(), "error", err)
		}
		return b, nil
	})
	if err != nil {
		return zero, err
	}
	if shared {
		m.logger.Debug("joined in-flight computation", "key", shortKey(key))
	}

	var v T
	if err := json.Unmarshal(encoded.([]byte), &v); err != nil {
		return zero, fmt.Errorf("decode %s: %w", shortKey(key), err)
	}
	return v, nil
}

func shortKey(key string) string {
	if len(key) > 24 {
		return key[:24]
	}
	return key
}
