//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("POSETRAIL_REDIS_URL")
	if url == "" {
		t.Skip("POSETRAIL_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := NewRedisCache(ctx, url, "posetrail-test:")
	if err != nil {
		t.Fatalf("NewRedisCache() error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "scene", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, "scene")
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get() = (%q, %v, %v), want (payload, true, nil)", data, hit, err)
	}
	if err := c.Delete(ctx, "scene"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "scene"); hit {
		t.Error("Get() after Delete should miss")
	}
}
