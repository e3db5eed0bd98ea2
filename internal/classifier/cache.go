package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const predictionKeyPrefix = "prediction:"

// CachedClassifier is a Redis read-through decorator. Classification is
// a pure function of the text, so a cached department is as good as a
// fresh one. Cache failures fall back to the wrapped classifier; they
// never substitute a department.
type CachedClassifier struct {
	next   Classifier
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedClassifier wraps next with a Redis prediction cache. A nil
// client disables caching and returns next unchanged.
func NewCachedClassifier(next Classifier, client *redis.Client, ttl time.Duration, logger *zap.Logger) Classifier {
	if client == nil {
		return next
	}
	return &CachedClassifier{next: next, client: client, ttl: ttl, logger: logger}
}

// Classify consults the cache before the model.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := predictionKey(text)

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil && cached != "" {
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		c.logger.Warn("prediction cache read failed", zap.Error(err))
	}

	department, err := c.next.Classify(ctx, text)
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, department, c.ttl).Err(); err != nil {
		c.logger.Warn("prediction cache write failed", zap.Error(err))
	}
	return department, nil
}

func predictionKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return predictionKeyPrefix + hex.EncodeToString(sum[:])
}
