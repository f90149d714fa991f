package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pantrysnap/backend/internal/api"
	"github.com/pantrysnap/backend/internal/middleware"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handlers bundles everything the router mounts. Any nil handler is simply
// skipped, which keeps tests free to mount only what they exercise.
type Handlers struct {
	Auth     *api.AuthHandler
	Profile  *api.ProfileHandler
	Generate *api.GenerateHandler
	Recipes  *api.RecipeHandler
	Photos   *api.PhotoHandler
	WS       *api.WSHandler
	Health   HealthChecker
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		if h.Health != nil {
			if err := h.Health.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	if h.Auth != nil {
		h.Auth.RegisterRoutes(v1)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(v1)
	}
	if h.Recipes != nil {
		h.Recipes.RegisterRoutes(v1)
	}
	if h.Generate != nil {
		h.Generate.RegisterRoutes(v1)
	}
	if h.Photos != nil {
		h.Photos.RegisterRoutes(v1)
	}
	if h.WS != nil {
		h.WS.RegisterRoutes(v1)
	}

	return router
}
