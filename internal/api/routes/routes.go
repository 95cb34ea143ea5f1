// server/internal/api/routes/routes.go
package routes

import (
	"context"
	"net/http"
	"time"

	"carbon-travel-api/config"
	"carbon-travel-api/internal/api/handlers"
	"carbon-travel-api/internal/api/middleware"
	"carbon-travel-api/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Dependencies are the services the router hands to its handlers.
type Dependencies struct {
	Emissions handlers.EmissionCalculator
	Trips     handlers.TripService
	Vehicles  handlers.VehicleService
	Users     handlers.UserService
	Analysis  handlers.AnalysisService
	Dashboard handlers.DashboardBuilder
	Grades    handlers.GradeReader
	Tokens    middleware.AccessTokenParser
	Hub       *socket.Hub
	Ping      func(ctx context.Context) error
	Log       zerolog.Logger
}

// Limiters are returned so the caller can run their cleanup loops.
type Limiters struct {
	General *middleware.RateLimiter
	Trips   *middleware.RateLimiter
}

// SetupRouter wires every route onto a new engine.
func SetupRouter(cfg config.Config, deps Dependencies) (*gin.Engine, Limiters) {
	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiters := Limiters{
		General: middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst),
		Trips:   middleware.NewRateLimiter(cfg.RateLimit.TripPerMinute, max(1, cfg.RateLimit.TripPerMinute/10)),
	}
	router.Use(limiters.General.Middleware())

	emissionHandler := &handlers.EmissionHandler{Calculator: deps.Emissions, Log: deps.Log}
	travelHandler := &handlers.TravelHandler{Trips: deps.Trips, Log: deps.Log}
	vehicleHandler := &handlers.VehicleHandler{Vehicles: deps.Vehicles, Log: deps.Log}
	userHandler := &handlers.UserHandler{
		Users:         deps.Users,
		RefreshMaxAge: int(cfg.JWT.RefreshExpiry.Seconds()),
		SecureCookie:  cfg.Server.Mode == gin.ReleaseMode,
		Log:           deps.Log,
	}
	analysisHandler := &handlers.AnalysisHandler{Analysis: deps.Analysis, Dashboard: deps.Dashboard, Log: deps.Log}
	gradeHandler := &handlers.GradeHandler{Grades: deps.Grades, Log: deps.Log}
	healthHandler := &handlers.HealthHandler{Ping: deps.Ping}
	webSocketHandler := &handlers.WebSocketHandler{
		Hub:    deps.Hub,
		Tokens: deps.Tokens,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowedOrigin(cfg.Server.CORSOrigins),
		},
		Log: deps.Log,
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/ws", webSocketHandler.ServeWs)

	// Public account routes
	router.POST("/signup", userHandler.Signup)
	router.POST("/login", userHandler.Login)
	router.POST("/auth/refresh", userHandler.Refresh)

	authed := router.Group("/")
	authed.Use(middleware.Authenticate(deps.Tokens))
	{
		authed.GET("/auth/me", userHandler.Me)

		travel := authed.Group("/travel")
		{
			travel.POST("/add", limiters.Trips.Middleware(), travelHandler.AddTravel)
			travel.GET("/history", travelHandler.GetHistory)
			travel.PUT("/update/:id", travelHandler.UpdateTrip)
			travel.DELETE("/delete/:id", travelHandler.DeleteTrip)
		}

		vehicle := authed.Group("/vehicle")
		{
			vehicle.POST("/create", vehicleHandler.CreateVehicle)
			vehicle.GET("/get/all", vehicleHandler.GetAllVehicles)
			vehicle.GET("/get/:identifier", vehicleHandler.GetVehicle)
			vehicle.PUT("/update/:id", vehicleHandler.UpdateVehicle)
			vehicle.DELETE("/delete/:id", vehicleHandler.DeleteVehicle)
		}
	}

	api := router.Group("/api")
	api.Use(middleware.Authenticate(deps.Tokens))
	{
		api.POST("/emissions/calculate", emissionHandler.Calculate)
		api.GET("/dashboard", analysisHandler.GetDashboard)

		analysis := api.Group("/analysis")
		{
			analysis.GET("/summary", analysisHandler.Summary)
			analysis.GET("/mode-breakdown", analysisHandler.ModeBreakdown)
			analysis.GET("/trend", analysisHandler.Trend)
			analysis.GET("/vehicle-usage", analysisHandler.VehicleUsage)
			analysis.GET("/impact", analysisHandler.CommunityImpact)
		}

		grades := api.Group("/grades")
		{
			grades.GET("/leaderboard", gradeHandler.GetLeaderboard)
			grades.GET("/:userId", gradeHandler.GetUserGrade)
		}
	}

	return router, limiters
}

func allowedOrigin(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range origins {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
