package middleware

import (
	"net/http"
	"sync"
	"time"

	"FaceAgeAPI/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(response.KindServing, "too_many_requests", http.StatusTooManyRequests, "Terlalu banyak permintaan.")
)

// idleTTL is how long a client IP may stay silent before its bucket is
// dropped. The map only holds IPs seen within that window.
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*visitor
	rate      rate.Limit
	burstSize int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	mutex     *sync.Mutex
}

// newRateLimiter returns nil when reqRate is 0, which disables limiting.
func newRateLimiter(reqRate float64, burstSize int) *rateLimiter {
	if reqRate <= 0 {
		return nil
	}
	if burstSize <= 0 {
		burstSize = int(reqRate) + 1
	}

	return &rateLimiter{
		bucket:    make(map[string]*visitor),
		rate:      rate.Limit(reqRate),
		burstSize: burstSize,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
		mutex:     &sync.Mutex{},
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= r.idleTTL {
		r.evictIdle(now)
	}

	v, exist := r.bucket[ip]
	if !exist {
		v = &visitor{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = v
	}
	v.lastSeen = now

	return v.limiter
}

func (r *rateLimiter) evictIdle(now time.Time) {
	for ip, v := range r.bucket {
		if now.Sub(v.lastSeen) >= r.idleTTL {
			delete(r.bucket, ip)
		}
	}
	r.lastSweep = now
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	if m.rateLimitter == nil {
		return ctx.Next()
	}

	clientIP := ctx.IP()
	limiter := m.rateLimitter.GetLimiterFrom(clientIP)

	if !limiter.Allow() {
		m.log.Warnf("too many requests for IP %s", clientIP)
		return ErrTooManyRequests
	}

	return ctx.Next()
}
