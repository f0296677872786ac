package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS 中间件 仅允许白名单中的Origin，支持Credentials
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && originSet[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		// XSS保护
		c.Header("X-XSS-Protection", "1; mode=block")
		// HSTS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// Clock 抽象时间来源，限流窗口逻辑依赖注入的时钟而非全局状态
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock 进程默认时钟
var SystemClock Clock = realClock{}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter 按 key（通常是客户端IP）限流，过期条目定期清理
type Limiter struct {
	mu     sync.Mutex
	store  map[string]*visitor
	rate   rate.Limit
	burst  int
	window time.Duration
	clock  Clock
}

func NewLimiter(maxRequests int, window time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock
	}
	return &Limiter{
		store:  make(map[string]*visitor),
		rate:   rate.Every(window / time.Duration(maxRequests)),
		burst:  maxRequests,
		window: window,
		clock:  clock,
	}
}

// Allow 判断某个 key 的这次请求是否放行
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	v, exists := l.store[key]
	if !exists {
		v = &visitor{
			limiter: rate.NewLimiter(l.rate, l.burst),
		}
		l.store[key] = v
	}
	v.lastSeen = l.clock.Now()
	l.mu.Unlock()

	return v.limiter.Allow()
}

// Sweep 清理超过三个窗口没有活动的条目，返回清理数量
func (l *Limiter) Sweep() int {
	expiry := l.window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}

	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.store {
		if now.Sub(v.lastSeen) > expiry {
			delete(l.store, key)
			removed++
		}
	}
	return removed
}

// RateLimiter 限流中间件 按IP限流
func RateLimiter(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := NewLimiter(maxRequests, window, SystemClock)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.Sweep()
		}
	}()

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
