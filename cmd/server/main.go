package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/studysync/studysync-api/internal/config"
	"github.com/studysync/studysync-api/internal/constants"
	"github.com/studysync/studysync-api/internal/database"
	"github.com/studysync/studysync-api/internal/handlers"
	"github.com/studysync/studysync-api/internal/middleware"
	"github.com/studysync/studysync-api/internal/realtime"
	"github.com/studysync/studysync-api/internal/repository"
	"github.com/studysync/studysync-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	friendRepo := repository.NewFriendRepository(db)

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	goalService := services.NewGoalService(goalRepo, services.SystemClock())
	roomService := services.NewRoomService(roomRepo, userRepo)
	friendService := services.NewFriendService(friendRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	goalHandler := handlers.NewGoalHandler(goalService)
	roomHandler := handlers.NewRoomHandler(roomService)
	friendHandler := handlers.NewFriendHandler(friendService)

	// Realtime hub; room joins are gated on membership
	hub := realtime.NewHub(roomService.IsMember)
	go hub.Run()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "StudySync API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id/completed", taskHandler.SetTaskCompleted)
			tasks.PUT("/:id/star", taskHandler.StarTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Goal routes (protected)
		goals := api.Group("/goals")
		goals.Use(middleware.RequireAuth())
		{
			goals.GET("", goalHandler.ListGoals)
			goals.POST("", goalHandler.CreateGoal)
			goals.PUT("/:id/tick", goalHandler.TickGoal)
			goals.PUT("/:id/star", goalHandler.StarGoal)
			goals.DELETE("/:id", goalHandler.DeleteGoal)
		}

		// Friend routes (protected)
		friends := api.Group("/friends")
		friends.Use(middleware.RequireAuth())
		{
			friends.GET("", friendHandler.ListFriends)
			friends.POST("/requests", friendHandler.SendRequest)
			friends.GET("/requests", friendHandler.ListPending)
			friends.POST("/requests/:id/respond", friendHandler.Respond)
		}

		// Room routes (protected)
		rooms := api.Group("/rooms")
		rooms.Use(middleware.RequireAuth())
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("", roomHandler.ListRooms)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.DELETE("/:id", roomHandler.DeleteRoom)
			rooms.POST("/:id/goals", roomHandler.AddGoal)
			rooms.GET("/:id/goals", roomHandler.ListGoals)
			rooms.PUT("/:id/goals/:goal_id/toggle", roomHandler.ToggleGoalCompletion)
			rooms.DELETE("/:id/goals/:goal_id", roomHandler.DeleteGoal)
			rooms.GET("/:id/messages", roomHandler.ListMessages)
			rooms.POST("/:id/messages", roomHandler.PostMessage)
		}

		// Realtime websocket endpoint (protected)
		api.GET("/ws", middleware.RequireAuth(), realtime.ServeWS(hub))
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
