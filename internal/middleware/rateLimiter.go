package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"golang.org/x/time/rate"
)

// limiterIdleTimeout is how long an address may stay quiet before its limiter is dropped.
const limiterIdleTimeout = 10 * time.Minute

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client address and forgets
// addresses that have been idle for limiterIdleTimeout.
type IPRateLimiter struct {
	ips       map[string]*clientLimiter
	mu        sync.Mutex
	rateLimit rate.Limit
	burstRate int
	now       func() time.Time
	lastPrune time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{ips: make(map[string]*clientLimiter), rateLimit: r, burstRate: b, now: time.Now}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastPrune) >= limiterIdleTimeout {
		i.prune(now)
	}
	client, exists := i.ips[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

// Len is the number of tracked addresses.
func (i *IPRateLimiter) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

// caller holds mu
func (i *IPRateLimiter) prune(now time.Time) {
	for ip, client := range i.ips {
		if now.Sub(client.lastSeen) >= limiterIdleTimeout {
			delete(i.ips, ip)
		}
	}
	i.lastPrune = now
}

//TODO: move the per-IP limiters to redis once there is more than one instance
