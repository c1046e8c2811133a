package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func setupRateLimiter(t *testing.T, maxReqs, windowSec int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, maxReqs, windowSec), mr
}

func chatRequest(remote string) *http.Request {
	req := httptest.NewRequest("POST", "/functions/v1/generate-ai-response", nil)
	req.RemoteAddr = remote
	return req
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl, _ := setupRateLimiter(t, 5, 60)

	for i := 0; i < 5; i++ {
		ok, _ := rl.Allow(chatRequest("192.168.1.1:12345"))
		assert.True(t, ok, "request %d", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl, _ := setupRateLimiter(t, 3, 60)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow(chatRequest("10.0.0.1:12345"))
		assert.True(t, ok, "request %d", i+1)
	}

	ok, retry := rl.Allow(chatRequest("10.0.0.1:12345"))
	assert.False(t, ok)
	assert.Equal(t, 60*time.Second, retry)
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	rl, _ := setupRateLimiter(t, 2, 60)

	for i := 0; i < 2; i++ {
		rl.Allow(chatRequest("1.1.1.1:1"))
	}

	ok, _ := rl.Allow(chatRequest("2.2.2.2:1"))
	assert.True(t, ok)
	ok, _ = rl.Allow(chatRequest("1.1.1.1:1"))
	assert.False(t, ok)
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	rl, mr := setupRateLimiter(t, 1, 60)
	mr.Close()

	ok, retry := rl.Allow(chatRequest("3.3.3.3:1"))
	assert.True(t, ok)
	assert.Zero(t, retry)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "9.9.9.9:443"
	assert.Equal(t, "9.9.9.9", ClientIP(req))

	req.Header.Set("X-Real-IP", "8.8.8.8")
	assert.Equal(t, "8.8.8.8", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "7.7.7.7, 10.0.0.1")
	assert.Equal(t, "7.7.7.7", ClientIP(req))
}
