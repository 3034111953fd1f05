// Package routes assembles the gin engine and the outer HTTP handler.
package routes

import (
	"net/http"

	"github.com/franciscosanchezn/pizza-store/internal/config"
	"github.com/franciscosanchezn/pizza-store/internal/controllers"
	"github.com/franciscosanchezn/pizza-store/internal/metrics"
	"github.com/franciscosanchezn/pizza-store/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/franciscosanchezn/pizza-store/docs" // registers the swagger document
)

// PizzaBasePaths are the route groups serving the same pizza handlers
var PizzaBasePaths = []string{"/pizzas", "/api/pizza"}

// Dependencies bundles what the router needs
type Dependencies struct {
	Config  *config.Config
	Log     logrus.FieldLogger
	Pizzas  controllers.PizzaController
	Health  *controllers.HealthController
	Metrics *metrics.Manager
}

// NewRouter initializes the Gin router and sets up the routes
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(deps.Log),
		middleware.Metrics(deps.Metrics),
	)

	setupRoutes(router, deps)
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/", deps.Health.Greeting)
	router.GET("/health", deps.Health.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secret := []byte(deps.Config.JWTSecret)
	mode := deps.Config.AuthMode
	for _, base := range PizzaBasePaths {
		pizzas := router.Group(base)
		{
			pizzas.GET("", deps.Pizzas.ListPizzas)
			pizzas.GET("/:id", deps.Pizzas.GetPizza)

			writes := pizzas.Group("")
			writes.Use(middleware.Authorize(mode, secret, deps.Log), middleware.RequireRole(mode, "admin"))
			{
				writes.POST("", deps.Pizzas.CreatePizza)
				writes.PUT("/:id", deps.Pizzas.UpdatePizza)
				writes.DELETE("/:id", deps.Pizzas.DeletePizza)
			}
		}
	}
}

// NewHandler wraps the router with the CORS policy for the configured origins
func NewHandler(cfg *config.Config, router http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Location", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(router)
}
