package notifications

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/BarishY/Astroverse/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Redis channel prefixes. One channel per topic, so subscribers fan
// out precisely.
const (
	collectionChannelPrefix = "interactions:collection:"
	postChannelPrefix       = "interactions:post:"
	chatChannelPrefix       = "chat:"
	userChannelPrefix       = "notifications:user:"
)

// Notifier publishes realtime events into Redis channels. A nil Redis
// client turns every publish into a no-op, so the app runs without
// realtime delivery when Redis is absent.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishCollection sends an interaction snapshot for a collection.
func (n *Notifier) PublishCollection(ctx context.Context, collectionID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, fmt.Sprintf("%s%d", collectionChannelPrefix, collectionID), payload).Err()
}

// PublishPost sends an interaction snapshot for an APOD post.
func (n *Notifier) PublishPost(ctx context.Context, postID string, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, postChannelPrefix+postID, payload).Err()
}

// PublishChat sends a new direct message into its conversation channel.
func (n *Notifier) PublishChat(ctx context.Context, conversationKey string, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, chatChannelPrefix+conversationKey, payload).Err()
}

// PublishUser sends a notification payload to a single user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, fmt.Sprintf("%s%d", userChannelPrefix, userID), payload).Err()
}

// StartPatternSubscriber subscribes to every realtime channel and calls
// onMessage for each incoming message. onMessage receives channel and
// payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx,
		collectionChannelPrefix+"*",
		postChannelPrefix+"*",
		chatChannelPrefix+"*",
		userChannelPrefix+"*",
	)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		defer func() {
			if r := recover(); r != nil {
				middleware.Logger.Error("notification subscriber panicked", "panic", r, "stack", string(debug.Stack()))
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Channel, msg.Payload)
			}
		}
	}()
	return nil
}

// topicForChannel maps a Redis channel name to the hub topic it feeds.
func topicForChannel(channel string) (string, bool) {
	switch {
	case strings.HasPrefix(channel, collectionChannelPrefix):
		return "collection:" + strings.TrimPrefix(channel, collectionChannelPrefix), true
	case strings.HasPrefix(channel, postChannelPrefix):
		return "post:" + strings.TrimPrefix(channel, postChannelPrefix), true
	case strings.HasPrefix(channel, chatChannelPrefix):
		return "chat:" + strings.TrimPrefix(channel, chatChannelPrefix), true
	case strings.HasPrefix(channel, userChannelPrefix):
		return "user:" + strings.TrimPrefix(channel, userChannelPrefix), true
	}
	return "", false
}
