package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
)

// LoginRateLimiter limits login attempts to 20 per minute per IP using a
// Redis fixed window. With Redis unavailable the request passes: the
// terminal must keep authenticating operators offline.
func LoginRateLimiter(rdb *redis.Client) gin.HandlerFunc {
	return rateLimiter(rdb, "ratelimit:login:", 20, time.Minute,
		"Muitas tentativas de login. Tente novamente em 1 minuto.")
}

// RateLimiter is the general-purpose per-IP limiter applied to the API
// surface.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return rateLimiter(rdb, "ratelimit:api:", limit, window,
		"Muitas solicitações. Tente novamente em instantes.")
}

func rateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := prefix + c.ClientIP()
		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Debug().Err(err).Msg("rate limiter indisponível")
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}
