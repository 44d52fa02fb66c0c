package cache

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/xhfmvls/c-buy/models"
)

func TestRedisProductCacheUnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewRedisProductCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	c.Set(ctx, &models.Product{ProductID: "p1", Price: decimal.RequireFromString("1.50")})
	if _, ok := c.Get(ctx, "p1"); ok {
		t.Fatal("expected miss when redis is unreachable")
	}
	c.Invalidate(ctx, "p1", "p2")
	c.Invalidate(ctx)
}

func TestNopProductCache(t *testing.T) {
	var c ProductCache = NopProductCache{}
	c.Set(context.Background(), &models.Product{ProductID: "p1"})
	if _, ok := c.Get(context.Background(), "p1"); ok {
		t.Fatal("nop cache must never hit")
	}
}

func TestProductKey(t *testing.T) {
	if got := productKey("abc"); got != "product:abc" {
		t.Fatalf("got %s", got)
	}
}

// commandRecorder answers every command locally and reports its name and args.
type commandRecorder struct {
	cmds chan []interface{}
}

func (r *commandRecorder) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (r *commandRecorder) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		r.cmds <- cmd.Args()
		return nil
	}
}

func (r *commandRecorder) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisProductCacheInvalidatesAgainAfterSettle(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	rec := &commandRecorder{cmds: make(chan []interface{}, 4)}
	client.AddHook(rec)

	c := NewRedisProductCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.settle = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	c.Invalidate(ctx, "p1")
	// The delayed delete must not depend on the request context.
	cancel()

	for i, label := range []string{"immediate", "settled"} {
		select {
		case args := <-rec.cmds:
			if len(args) != 2 || args[0] != "del" || args[1] != "product:p1" {
				t.Fatalf("%s delete: unexpected command %v", label, args)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("%s delete (#%d) never sent", label, i+1)
		}
	}
}
