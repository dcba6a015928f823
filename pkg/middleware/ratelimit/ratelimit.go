package ratelimit

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/noah-isme/studentools-api/pkg/errors"
	"github.com/noah-isme/studentools-api/pkg/response"
)

// Endpoint tiers.
const (
	TierLightweight    = "lightweight"
	TierFileProcessing = "file_processing"
	TierAI             = "ai"
)

const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-client token bucket refilled evenly over a minute.
type Limiter struct {
	tier      string
	limit     rate.Limit
	burst     int
	now       func() time.Time
	onReject  func(tier string)
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithRejectHook is called with the tier name for every rejected request.
func WithRejectHook(hook func(tier string)) Option {
	return func(l *Limiter) { l.onReject = hook }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New builds a limiter allowing perMinute requests per client IP.
func New(tier string, perMinute int, opts ...Option) *Limiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	l := &Limiter{
		tier:     tier,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Middleware rejects over-budget requests with 429 and a Retry-After header.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		wait, ok := l.allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		if l.onReject != nil {
			l.onReject(l.tier)
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		response.Error(c, appErrors.ErrRateLimited)
		c.Abort()
	}
}

func (l *Limiter) allow(key string) (time.Duration, bool) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	reservation := v.limiter.ReserveN(now, 1)
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		if delay < time.Second {
			delay = time.Second
		}
		return delay, false
	}
	return 0, true
}

// sweep drops clients idle for longer than idleTTL; runs at most once per TTL.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	l.lastSweep = now
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleTTL {
			delete(l.visitors, key)
		}
	}
}
