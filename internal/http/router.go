package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configura el router de Gin con middlewares y todas las rutas.
func NewRouter(
	logger *zap.Logger,
	corsOrigins []string,
	authH *AuthHandler,
	userH *UserHandler,
	avatarH *AvatarHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y CORS con credenciales para
	// que las cookies crucen de origen.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	r.POST("/signup", authH.Signup)
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)

	users := r.Group("/users")
	users.GET("", userH.ListUsers)
	users.POST("", userH.CreateUser)
	users.GET("/profiles", userH.ListWithProfiles)
	users.GET("/me", authH.Me)
	users.GET("/:id", userH.GetUser)
	users.PUT("/:id", userH.UpdateUser)
	users.POST("/:id/uploadavatar", avatarH.Upload)
	users.GET("/:id/avatar", avatarH.ListAvatars)
	users.POST("/savedprofilespages", userH.SavedProfilesPages)

	user := r.Group("/user")
	user.GET("/getotheruser/:id", userH.GetUser)
	user.POST("/updatesavedposts/:id", userH.UpdateSavedProfiles)
	user.POST("/removesavedposts/:id", userH.RemoveSavedProfiles)
	user.GET("/savedprofiles/:id", userH.GetSavedProfiles)

	r.GET("/files/*path", avatarH.ServeFile)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
