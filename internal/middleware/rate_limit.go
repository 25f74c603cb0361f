package middleware

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	// Limites par endpoint
	RefundMaxAttempts  = 3
	PaymentMaxAttempts = 10

	// Durées de cooldown
	RefundCooldown  = 10 * time.Minute
	PaymentCooldown = 1 * time.Minute
)

// rateLimit incrémente un compteur Redis par utilisateur et bloque au-delà
// de la limite. Si Redis est indisponible on laisse passer : le verrou
// métier du moteur reste le garde-fou.
func rateLimit(rdb *redis.Client, prefix string, max int, cooldown time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", prefix, userID)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible (%s): %v", key, err)
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, cooldown)
		}

		if count > int64(max) {
			ttl, _ := rdb.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de tentatives, réessayez plus tard",
				"retry_after": int64(ttl.Seconds()),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RefundRateLimit limite les demandes de remboursement par utilisateur
func RefundRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return rateLimit(rdb, "refund_attempts", RefundMaxAttempts, RefundCooldown)
}

// PaymentRateLimit limite les confirmations de paiement par utilisateur
func PaymentRateLimit(rdb *redis.Client) gin.HandlerFunc {
	return rateLimit(rdb, "payment_attempts", PaymentMaxAttempts, PaymentCooldown)
}
