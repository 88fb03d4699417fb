package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestEncode(t *testing.T) {
	finished := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	payload, err := Encode(MatchFinished{
		MatchID:     "abc",
		StrategyOne: "good",
		StrategyTwo: "awful",
		Winner:      "good",
		Turns:       42,
		FinishedAt:  finished,
	})
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		key      string
		expected interface{}
	}{
		{name: "match id", key: "match_id", expected: "abc"},
		{name: "winner", key: "winner", expected: "good"},
		{name: "turns", key: "turns", expected: float64(42)},
		{name: "finished at", key: "finished_at", expected: "2024-07-01T12:00:00Z"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if decoded[test.key] != test.expected {
				t.Fatalf("expected %s: %v\t got: %v", test.key, test.expected, decoded[test.key])
			}
		})
	}
}

func TestNewWithoutAddr(t *testing.T) {
	p := New(context.Background(), "", "")
	if _, ok := p.(NopPublisher); !ok {
		t.Fatalf("expected NopPublisher\t got: %T", p)
	}
	if err := p.Publish(context.Background(), MatchFinished{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRedisPublisherUnreachable(t *testing.T) {
	// Nothing listens on port 1.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	rp := NewRedisPublisher(rdb)
	defer rp.Close()

	if err := rp.Publish(context.Background(), MatchFinished{MatchID: "abc"}); err == nil {
		t.Fatal("expected publish to fail without a redis server")
	}
}
