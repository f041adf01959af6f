package router

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-management-service/internal/adapter/gin/handler"
	"user-management-service/internal/adapter/gin/middleware"
	"user-management-service/pkg/logger"
)

// Deps collects everything the router mounts.
type Deps struct {
	Users       *handler.UserHandler
	System      *handler.SystemHandler
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
	CORS        middleware.CORSConfig
	UI          fs.FS  // browser bundle; must contain index.html
	SwaggerPath string // e.g. /swagger/users.swagger.json
	SwaggerJSON []byte
	Log         *zap.Logger
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(d Deps) (*gin.Engine, error) {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(d.Log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.CORS(d.CORS))
	if d.RateLimiter != nil {
		router.Use(d.RateLimiter.Middleware())
	}
	// JSON answers are small; only the static bundle benefits from compression
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api"})))

	router.GET("/health", d.System.Health)

	api := router.Group("/api")
	{
		api.GET("", middleware.LogMessage(d.Log), d.System.Index)

		users := api.Group("/users")
		{
			users.GET("", d.Users.ListUsers)
			users.GET("/:id", d.Users.GetUser)
			users.POST("", d.Users.CreateUser)
			users.PUT("/:id", d.Users.UpdateUser)
			users.DELETE("/:id", d.Users.DeleteUser)
		}
	}

	if len(d.SwaggerJSON) > 0 {
		router.GET("/swagger/*any", swaggerHandler(d.SwaggerPath, d.SwaggerJSON))
	}

	if d.UI != nil {
		spa, err := spaHandler(d.UI)
		if err != nil {
			return nil, err
		}
		router.NoRoute(spa)
	}

	return router, nil
}

func swaggerHandler(docPath string, doc []byte) gin.HandlerFunc {
	ui := httpSwagger.Handler(httpSwagger.URL(docPath))
	return func(c *gin.Context) {
		if c.Request.URL.Path == docPath {
			c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
			return
		}
		ui.ServeHTTP(c.Writer, c.Request)
	}
}

// spaHandler serves files from the bundle and falls back to index.html for
// any other GET so client-side routes resolve.
func spaHandler(ui fs.FS) (gin.HandlerFunc, error) {
	index, err := fs.ReadFile(ui, "index.html")
	if err != nil {
		return nil, err
	}
	files := http.FS(ui)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(c.Request.URL.Path), "/")
		if name != "" && name != "index.html" {
			if st, err := fs.Stat(ui, name); err == nil && !st.IsDir() {
				c.FileFromFS(name, files)
				return
			}
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}, nil
}
