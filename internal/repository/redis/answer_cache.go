package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pobyzaarif/goshortcute"
	"github.com/redis/go-redis/v9"
)

const answerKeyPrefix = "faq:answer:"

// AnswerCache keeps inference answers keyed by the normalized question.
type AnswerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAnswerCache(client *redis.Client, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		client: client,
		ttl:    ttl,
	}
}

// key format: "faq:answer:{base64(question)}"
func answerKey(question string) string {
	return answerKeyPrefix + goshortcute.StringtoBase64Encode(question)
}

func (c *AnswerCache) Get(ctx context.Context, question string) (string, bool, error) {
	val, err := c.client.Get(ctx, answerKey(question)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get cached answer: %w", err)
	}

	return val, true, nil
}

func (c *AnswerCache) Set(ctx context.Context, question, answer string) error {
	if err := c.client.Set(ctx, answerKey(question), answer, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}

	return nil
}

// Forget drops a cached answer, e.g. after an administrator curates the question.
func (c *AnswerCache) Forget(ctx context.Context, question string) error {
	if err := c.client.Del(ctx, answerKey(question)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached answer: %w", err)
	}

	return nil
}
