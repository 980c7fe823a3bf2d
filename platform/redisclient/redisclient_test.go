package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"steam_search_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
)

type testConfig struct{ url string }

func (c testConfig) GetRedisURL() string       { return c.url }
func (c testConfig) GetRedisTLSInsecure() bool { return false }

func TestOpenWithoutURLReturnsNil(t *testing.T) {
	client, err := Open(context.Background(), testConfig{}, logger.Discard())
	if err != nil || client != nil {
		t.Fatalf("expected nil client and error, got %v %v", client, err)
	}
}

func TestOpenRejectsMalformedURL(t *testing.T) {
	if _, err := Open(context.Background(), testConfig{url: "http://nope"}, logger.Discard()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpenConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Open(context.Background(), testConfig{url: "redis://" + mr.Addr()}, logger.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = client.Close() }()

	if err := NewHealthAdapter(client).Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	mr.Close()
	if err := NewHealthAdapter(client).Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure after server shutdown")
	}
}

func TestWithRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), logger.Discard(), "op", 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success on third attempt, got %v after %d calls", err, calls)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	err := WithRetry(context.Background(), logger.Discard(), "op", 2, time.Millisecond, func() error {
		return errors.New("down")
	})
	if err == nil || err.Error() != "op: down" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, logger.Discard(), "op", 5, time.Hour, func() error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}
