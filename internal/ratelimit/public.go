package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/offerdesk/offerdesk/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyPublicOffer = "public:offer:%s"

const (
	publicOfferRate  = 2.0
	publicOfferBurst = 10
)

// PublicLimiter caps anonymous reads of shared offer links, keyed per
// client address.
type PublicLimiter struct {
	enabled bool
	bucket  *TokenBucket
}

func NewPublicLimiter(cfg config.Config) *PublicLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return &PublicLimiter{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})

	return &PublicLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
	}
}

func (l *PublicLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *PublicLimiter) Allow(ctx context.Context, clientIP string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyPublicOffer, strings.TrimSpace(clientIP)), publicOfferRate, publicOfferBurst)
}
