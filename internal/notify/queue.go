package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// Queue is the best-effort delivery buffer between fan-out and the
// delivery worker. Enqueue failures are the caller's to log and swallow.
type Queue struct {
	client *redis.Client
	key    string
}

// NewQueue wraps a redis client and list key.
func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

// Enqueue pushes a notification for asynchronous delivery.
func (q *Queue) Enqueue(ctx context.Context, notification *domain.Notification) error {
	if q == nil || q.client == nil {
		return nil
	}
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Dequeue blocks up to timeout for the next pending notification. A nil
// result with nil error means the timeout elapsed.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.Notification, error) {
	if q == nil || q.client == nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(timeout):
			return nil, nil
		}
	}
	values, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(values) < 2 {
		return nil, nil
	}
	var notification domain.Notification
	if err := json.Unmarshal([]byte(values[1]), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}
