package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kraakman/autoservice-backend/config"
	"github.com/kraakman/autoservice-backend/internal/app/controller"
	"github.com/kraakman/autoservice-backend/internal/middleware"
)

type Router struct {
	authController    *controller.AuthController
	carController     *controller.CarController
	imageController   *controller.ImageController
	reviewController  *controller.ReviewController
	contactController *controller.ContactController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	carController *controller.CarController,
	imageController *controller.ImageController,
	reviewController *controller.ReviewController,
	contactController *controller.ContactController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		carController:     carController,
		imageController:   imageController,
		reviewController:  reviewController,
		contactController: contactController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Autoservice API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		cars := v1.Group("/cars")
		{
			cars.GET("", r.carController.GetCars)
			cars.GET("/filters", r.carController.GetFilterOptions)
			cars.GET("/:id", r.carController.GetCarByID)
			cars.GET("/:id/similar", r.carController.GetSimilarCars)
		}

		v1.GET("/reviews", r.reviewController.GetReviews)

		contact := v1.Group("/contact")
		{
			contact.POST("/testdrive", r.contactController.RequestTestDrive)
			contact.POST("/message", r.contactController.SendMessage)
		}

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireAdmin(),
		)
		{
			admin.POST("/cars", r.carController.CreateCar)
			admin.PUT("/cars/:id", r.carController.UpdateCar)
			admin.DELETE("/cars/:id", r.carController.DeleteCar)

			admin.GET("/cars/:id/images", r.imageController.ListImages)
			admin.POST("/cars/:id/images", r.imageController.UploadImages)
			admin.PUT("/cars/:id/images/:imageId/move", r.imageController.MoveImage)
			admin.DELETE("/cars/:id/images/:imageId", r.imageController.DeleteImage)

			admin.POST("/reviews/sync", r.reviewController.TriggerSync)
			admin.GET("/reviews/health", r.reviewController.GetHealth)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
