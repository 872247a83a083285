package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/models"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/response"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

var TokenService *services.TokenService

// InitAuth initializes the token service used by the auth middleware
func InitAuth() error {
	tokenService, err := services.NewTokenService()
	if err != nil {
		return err
	}
	TokenService = tokenService
	return nil
}

const actorKey = "actor"

// BearerAuthMiddleware resolves the caller's bearer token to a profile and
// threads it through the request context as the actor
func BearerAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing bearer token"))
			c.Abort()
			return
		}

		claims, err := TokenService.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid bearer token"))
			c.Abort()
			return
		}

		profile, err := database.GetProfileByUUID(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Profile not found"))
			c.Abort()
			return
		}

		c.Set(actorKey, profile)
		c.Set("request_time", time.Now())
		c.Next()
	}
}

// Actor returns the authenticated profile threaded by BearerAuthMiddleware
func Actor(c *gin.Context) *models.Profile {
	value, exists := c.Get(actorKey)
	if !exists {
		return nil
	}
	profile, ok := value.(*models.Profile)
	if !ok {
		return nil
	}
	return profile
}

// SetActor stores an actor directly; used by handler tests
func SetActor(c *gin.Context, profile *models.Profile) {
	c.Set(actorKey, profile)
}

// RequireRole gates a route group to the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Not authenticated"))
			c.Abort()
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Insufficient role"))
		c.Abort()
	}
}

// RequireFeature hides a route group behind an environment feature flag
func RequireFeature(enabled func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled() {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Not found"))
			c.Abort()
			return
		}
		c.Next()
	}
}
