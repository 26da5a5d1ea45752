package redis_test

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/redis"
)

func TestNewClient_EmptyAddress(t *testing.T) {
	client, err := redis.NewClient(redis.Config{})
	if !errors.Is(err, redis.ErrEmptyAddress) {
		t.Fatalf("NewClient() error = %v, want ErrEmptyAddress", err)
	}
	if client != nil {
		t.Error("NewClient() returned a client for an empty address")
	}
}

func TestNewClient_PingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.NewClient(redis.Config{Address: mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()
}

func TestNewClient_UnreachableServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := redis.NewClient(redis.Config{Address: addr}); err == nil {
		t.Error("NewClient() succeeded against a closed server")
	}
}
