package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// window counts requests per client IP in fixed windows. Counters live in
// go-cache, which expires them with the window and purges them in the
// background.
type window struct {
	limit  int
	length time.Duration
	hits   *cache.Cache
}

func newWindow(limit int, length time.Duration) *window {
	return &window{limit: limit, length: length, hits: cache.New(length, 2*length)}
}

// allow records one hit and reports whether the client is within its limit.
func (w *window) allow(ip string) bool {
	if err := w.hits.Add(ip, 1, w.length); err == nil {
		return true
	}
	n, err := w.hits.IncrementInt(ip, 1)
	if err != nil {
		// Expired between Add and IncrementInt.
		w.hits.Set(ip, 1, w.length)
		return true
	}
	return n <= w.limit
}

func (w *window) middleware(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !w.allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(int(w.length.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter allows 20 login attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newWindow(20, time.Minute).middleware("Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter limits every IP to limit requests per window.
func RateLimiter(limit int, length time.Duration) gin.HandlerFunc {
	return newWindow(limit, length).middleware("Demasiadas solicitudes. Intente nuevamente en un momento.")
}
