// Package realtime pushes user-facing progression events to Redis Pub/Sub,
// where the websocket gateway picks them up.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client is the part of *redis.Client the publisher uses
type Client interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf(ErrMsgConnectFailed, addr, err)
	}
	return client, nil
}

// Publisher publishes JSON messages on prefixed channels
type Publisher struct {
	client Client
	prefix string
}

// NewPublisher creates a Publisher. An empty prefix uses DefaultChannelPrefix.
func NewPublisher(client Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &Publisher{client: client, prefix: prefix}
}

// Publish marshals payload and publishes it on channel. It returns the number
// of subscribers that received the message.
func (p *Publisher) Publish(ctx context.Context, channel string, payload interface{}) (int64, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgMarshalFailed, err)
	}

	full := p.prefix + channel
	receivers, err := p.client.Publish(ctx, full, data).Result()
	if err != nil {
		return 0, fmt.Errorf(ErrMsgPublishFailed, full, err)
	}
	return receivers, nil
}

// Ping reports whether Redis is reachable
func (p *Publisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (p *Publisher) Close() error {
	return p.client.Close()
}
