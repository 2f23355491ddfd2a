package api

import (
	"alcyxob/fitness-scheduler/internal/metrics"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Tokens are issued by the identity service; only verification happens here.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}
		if claims.ExpiresAt == nil {
			abortWithError(c, http.StatusUnauthorized, "Token has no expiry")
			return
		}
		if _, err := primitive.ObjectIDFromHex(claims.UserID); err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid user ID format in token")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID) // Hex representation
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// userObjectID resolves the authenticated user. It aborts the request and
// returns false when that is not possible.
func userObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(begin).String(),
			"ua":       c.Request.UserAgent(),
		})
		if userID, err := getUserIDFromContext(c); err == nil {
			entry = entry.WithField("user", userID)
		}
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}

// RequestMetrics counts requests and observes their duration per route.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		defer func(begin time.Time) {
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

type RequestRateLimiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

// RateLimit allows allowedPerMin requests per user and route name.
// Must run AFTER AuthMiddleware.
func RateLimit(rateLimiter RequestRateLimiter, routeName string, allowedPerMin int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
			return
		}

		res, err := rateLimiter.Allow(
			c.Request.Context(),
			"ratelimit:"+routeName+":"+userID,
			redis_rate.PerMinute(allowedPerMin),
		)
		if err != nil {
			logrus.WithError(err).WithField("route", routeName).Error("rate limiter failed")
			abortWithError(c, http.StatusInternalServerError, "rate limit internal error")
			return
		}

		if res.Allowed > 0 {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		abortWithError(c, http.StatusTooManyRequests, fmt.Sprintf("retry after %d seconds", retryAfter))
	}
}
