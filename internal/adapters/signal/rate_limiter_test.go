package signal

import (
	"testing"
	"time"
)

func TestSendRateLimiter(t *testing.T) {
	rl := NewSendRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("send %d blocked below the limit", i+1)
		}
	}
	if rl.Allow("a") {
		t.Fatal("send over the limit allowed")
	}
	// Other connections have their own window.
	if !rl.Allow("b") {
		t.Fatal("unrelated connection blocked")
	}
}

func TestSendRateLimiterWindowSlides(t *testing.T) {
	rl := NewSendRateLimiter(1, 20*time.Millisecond)

	if !rl.Allow("a") {
		t.Fatal("first send blocked")
	}
	if rl.Allow("a") {
		t.Fatal("second send within window allowed")
	}
	time.Sleep(30 * time.Millisecond)
	if !rl.Allow("a") {
		t.Fatal("send after window expiry blocked")
	}
}

func TestSendRateLimiterForget(t *testing.T) {
	rl := NewSendRateLimiter(1, time.Minute)
	rl.Allow("a")
	rl.Forget("a")
	if !rl.Allow("a") {
		t.Fatal("forgotten connection still limited")
	}
}
