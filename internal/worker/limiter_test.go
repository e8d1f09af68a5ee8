package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected burst 1 for non-positive input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://maps.googleapis.com/maps/api/place/nearbysearch/json"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Second host has its own bucket.
	if err := limiter.Wait(ctx, "https://api.yelp.com/v3/businesses/search"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_PerHostBuckets(t *testing.T) {
	// 1 rps, burst 1: one token per host.
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://maps.googleapis.com/a") {
		t.Errorf("first google request should pass")
	}
	if limiter.Allow("https://maps.googleapis.com/b") {
		t.Errorf("second google request should be throttled")
	}

	// Exhausting Google's bucket must not affect Yelp.
	if !limiter.Allow("https://api.yelp.com/v3/businesses/search") {
		t.Errorf("yelp request should pass with a fresh bucket")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("api.yelp.com", 0.1, 1)

	if !limiter.Allow("https://api.yelp.com/v3/businesses/search") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("https://api.yelp.com/v3/businesses/search") {
		t.Errorf("second request should be throttled at 0.1 rps")
	}

	// Default-rate hosts are unaffected.
	if !limiter.Allow("https://maps.googleapis.com/a") {
		t.Errorf("google should still use the fast default")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://api.yelp.com/v3/businesses/search?term=coffee")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "api.yelp.com" {
		t.Errorf("expected api.yelp.com, got %s", host)
	}

	if _, err := hostOf("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
