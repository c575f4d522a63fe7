package routes

import (
	"log/slog"
	"net/http"

	"github.com/FlowDomain/NutriLog/controllers"
	"github.com/FlowDomain/NutriLog/middlewares"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every controller the router mounts.
type Handlers struct {
	Auth      *controllers.AuthController
	Profile   *controllers.ProfileController
	Food      *controllers.FoodController
	Meal      *controllers.MealController
	DailyLog  *controllers.DailyLogController
	Analytics *controllers.AnalyticsController
	Realtime  *controllers.RealtimeController
	Device    *controllers.DeviceController
	Alert     *controllers.AlertController
}

func SetupRouter(h Handlers, jwtSecret []byte, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(log))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	protected := r.Group("/")
	protected.Use(middlewares.AuthMiddleware(jwtSecret))

	user := protected.Group("/user")
	{
		user.GET("/profile", h.Profile.GetProfile)
		user.PUT("/profile", h.Profile.UpdateProfile)
		user.GET("/recommendations", h.Profile.GetRecommendations)
		user.POST("/devices", h.Device.Register)
		user.POST("/notifications/toggle", h.Device.ToggleNotifications)
		user.GET("/alerts", h.Alert.List)
		user.POST("/alerts/test", h.Alert.SendTest)
	}

	foods := protected.Group("/foods")
	{
		foods.GET("", h.Food.List)
		foods.POST("", h.Food.Create)
		foods.POST("/recognize", h.Food.Recognize)
		foods.GET("/:id", h.Food.Get)
		foods.PUT("/:id", h.Food.Update)
		foods.DELETE("/:id", h.Food.Delete)
	}

	meals := protected.Group("/meals")
	{
		meals.GET("", h.Meal.ListMeals)
		meals.POST("", h.Meal.LogMeal)
		meals.GET("/:id", h.Meal.GetMeal)
		meals.DELETE("/:id", h.Meal.DeleteMeal)
	}

	protected.GET("/daily-logs", h.DailyLog.List)
	protected.GET("/analytics", h.Analytics.GetReport)
	protected.POST("/analytics/email", h.Analytics.EmailReport)
	protected.GET("/ws/alerts", h.Realtime.AlertsWS)

	return r
}
