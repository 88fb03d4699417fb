package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const ChannelMatches = "battleship:matches"

// MatchFinished is published once per finished match, whether it was played
// over a websocket session or by the simulator.
type MatchFinished struct {
	MatchID     string    `json:"match_id"`
	StrategyOne string    `json:"strategy_one"`
	StrategyTwo string    `json:"strategy_two"`
	Winner      string    `json:"winner"`
	Turns       int       `json:"turns"`
	FinishedAt  time.Time `json:"finished_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event MatchFinished) error
	Close() error
}

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: ChannelMatches}
}

// ConnectRedis returns a client that answered a ping.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	log.Info("connected to redis", "addr", addr)
	return rdb, nil
}

func Encode(event MatchFinished) ([]byte, error) {
	return json.Marshal(event)
}

func (rp *RedisPublisher) Publish(ctx context.Context, event MatchFinished) error {
	payload, err := Encode(event)
	if err != nil {
		return err
	}
	return rp.client.Publish(ctx, rp.channel, payload).Err()
}

func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// NopPublisher is used when no redis address is configured.
type NopPublisher struct{}

var _ Publisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, MatchFinished) error { return nil }
func (NopPublisher) Close() error                                { return nil }

// New picks the redis publisher when addr is set. A redis that cannot be
// reached is logged and replaced by NopPublisher.
func New(ctx context.Context, addr, password string) Publisher {
	if addr == "" {
		return NopPublisher{}
	}

	rdb, err := ConnectRedis(ctx, addr, password)
	if err != nil {
		log.Warn("match notifications disabled", "err", err)
		return NopPublisher{}
	}
	return NewRedisPublisher(rdb)
}
