package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimitMiddleware aplica uma janela fixa por cliente via Redis.
// Usado na rota do chatbot, que dispara chamadas pagas à API de LLM.
// Sem Redis disponível o middleware vira passthrough.
func RateLimitMiddleware(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	if rdb == nil || limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := rateKey(c)
		ctx := c.Request.Context()

		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis fora do ar não derruba a API
			c.Next()
			return
		}

		if n == 1 {
			rdb.Expire(ctx, key, window)
		}

		if n > int64(limit) {
			ttl, _ := rdb.TTL(ctx, key).Result()
			retry := int(ttl / time.Second)
			if retry < 0 {
				retry = 0
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Muitas requisições. Tente novamente em instantes.",
			})
			return
		}

		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	if userID, ok := CurrentUserID(c); ok {
		return fmt.Sprintf("ratelimit:user:%d", userID)
	}
	return "ratelimit:ip:" + c.ClientIP()
}

// NewRedisClient conecta no Redis configurado; devolve nil quando não há
// endereço ou o ping falha, e quem consome degrada graciosamente.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
