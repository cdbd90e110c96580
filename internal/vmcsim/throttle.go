package vmcsim

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// orgThrottle keeps one token bucket per organization, like the provider's
// per-org API quota.
type orgThrottle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newOrgThrottle(rps float64, burst int) *orgThrottle {
	if burst <= 0 {
		burst = 1
	}
	return &orgThrottle{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (t *orgThrottle) allow(org string) bool {
	t.mu.Lock()
	limiter, ok := t.limiters[org]
	if !ok {
		limiter = rate.NewLimiter(t.rate, t.burst)
		t.limiters[org] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}

// middleware answers 429 once an organization exceeds its quota.
func (t *orgThrottle) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.allow(c.Param("org")) {
			c.Header("Retry-After", "1")
			respondError(c, http.StatusTooManyRequests, "rate.limit.exceeded", "too many requests for this organization")
			return
		}
		c.Next()
	}
}
