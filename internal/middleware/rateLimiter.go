package middleware

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client address. A bucket not
// touched for idleExpiry is evicted, so the set stays bounded by recent clients.
type IPRateLimiter struct {
	buckets    *cache.Cache
	mu         sync.Mutex
	rateLimit  rate.Limit
	burstRate  int
	idleExpiry time.Duration
}

func NewIPRateLimiter(r rate.Limit, b int, idleExpiry time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		buckets:    cache.New(idleExpiry, idleExpiry),
		rateLimit:  r,
		burstRate:  b,
		idleExpiry: idleExpiry,
	}
}

// GetLimiter returns the bucket for ip and pushes its expiry out again.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, ok := i.lookup(ip)
	if !ok {
		limiter = rate.NewLimiter(i.rateLimit, i.burstRate)
	}
	i.buckets.Set(ip, limiter, i.idleExpiry)
	return limiter
}

func (i *IPRateLimiter) lookup(ip string) (*rate.Limiter, bool) {
	x, found := i.buckets.Get(ip)
	if !found {
		return nil, false
	}
	return x.(*rate.Limiter), true
}

// Len counts buckets, including expired ones the janitor has not swept yet.
func (i *IPRateLimiter) Len() int {
	return i.buckets.ItemCount()
}

func (i *IPRateLimiter) evictIdle() {
	i.buckets.DeleteExpired()
}

//TODO: move limiter state to redis once more than one instance serves traffic
