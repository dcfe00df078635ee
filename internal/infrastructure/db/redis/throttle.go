package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const alertCooldown = time.Hour

// AlertThrottle rate-limits manual alerts per student, backed by Redis.
// Key format: alert:<roll_no>, expiring after the cooldown.
type AlertThrottle struct {
	client *redis.Client
}

// NewAlertThrottle creates an AlertThrottle wrapping the given Redis client.
func NewAlertThrottle(client *redis.Client) *AlertThrottle {
	return &AlertThrottle{client: client}
}

// Allow reports whether an alert for rollNo may be sent now. The SET NX is
// atomic, so two concurrent triggers for the same student resolve to exactly
// one send.
func (t *AlertThrottle) Allow(ctx context.Context, rollNo string) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.key(rollNo), "1", alertCooldown).Result()
	if err != nil {
		return false, fmt.Errorf("alert throttle: %w", err)
	}
	return ok, nil
}

func (t *AlertThrottle) key(rollNo string) string {
	return fmt.Sprintf("alert:%s", rollNo)
}
