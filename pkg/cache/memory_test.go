package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type cachedScore struct {
	UserID string  `json:"userId"`
	Score  float64 `json:"score"`
}

func TestMemoryCacheTypedDestination(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	in := cachedScore{UserID: "user-1", Score: 66.67}
	if err := mc.Set(ctx, "score:user-1", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out cachedScore
	if err := mc.Get(ctx, "score:user-1", &out); err != nil {
		t.Fatalf("get into typed pointer: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	var ptr *cachedScore
	if err := mc.Set(ctx, "score:ptr", &in, time.Minute); err != nil {
		t.Fatalf("set pointer: %v", err)
	}
	if err := mc.Get(ctx, "score:ptr", &ptr); err != nil {
		t.Fatalf("get pointer value: %v", err)
	}
	if ptr == nil || *ptr != in {
		t.Fatalf("got %+v, want %+v", ptr, in)
	}
}

func TestMemoryCacheStringAndSerializedValues(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "plain", "hello", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var s string
	if err := mc.Get(ctx, "plain", &s); err != nil {
		t.Fatalf("get string: %v", err)
	}
	if s != "hello" {
		t.Fatalf("got %q, want %q", s, "hello")
	}

	payload, err := json.Marshal(cachedScore{UserID: "user-2", Score: 42})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := mc.Set(ctx, "encoded", string(payload), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var decoded cachedScore
	if err := mc.Get(ctx, "encoded", &decoded); err != nil {
		t.Fatalf("get serialized payload: %v", err)
	}
	if decoded.UserID != "user-2" || decoded.Score != 42 {
		t.Fatalf("got %+v", decoded)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var out cachedScore
	if err := mc.Get(context.Background(), "absent", &out); err != ErrCacheMiss {
		t.Fatalf("got %v, want ErrCacheMiss", err)
	}
}
