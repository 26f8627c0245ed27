package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/officialid/officialid-api/internal/config"
	"github.com/officialid/officialid-api/internal/constants"
	"github.com/officialid/officialid-api/internal/database"
	"github.com/officialid/officialid-api/internal/handlers"
	"github.com/officialid/officialid-api/internal/mailer"
	"github.com/officialid/officialid-api/internal/middleware"
	"github.com/officialid/officialid-api/internal/models"
	"github.com/officialid/officialid-api/internal/repository"
	"github.com/officialid/officialid-api/internal/services"
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
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Redis client for PIN attempt throttling
	redisClient := goredis.NewClient(&goredis.Options{
		Addr: redisAddr,
	})

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	cardRepo := repository.NewCardRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Email dispatcher (best-effort, audited in email_logs)
	emailClient := mailer.NewClient(cfg.EmailAPIURL, cfg.EmailAPIKey)
	dispatcher := mailer.NewDispatcher(emailClient, cfg.EmailFrom, emailLogRepo)

	// Services
	authService := services.NewAuthService(userRepo)
	orgService := services.NewOrganizationService(orgRepo, userRepo, dispatcher, cfg.AppBaseURL)
	cardService := services.NewCardService(cardRepo, dispatcher, cfg.ShareSecret, cfg.AppBaseURL)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, dispatcher)
	eventService := services.NewEventService(eventRepo)
	templateService := services.NewTemplateService(cardRepo, redisClient)

	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	cardHandler := handlers.NewCardHandler(cardService, aiService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	emailHandler := handlers.NewEmailHandler(dispatcher, orgService)
	eventHandler := handlers.NewEventHandler(eventService, orgService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	adminHandler := handlers.NewAdminHandler(userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Official ID API is running",
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
			auth.PATCH("/me", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Organization routes (protected)
		orgs := api.Group("/organizations")
		orgs.Use(middleware.RequireAuth())
		{
			orgs.POST("", middleware.RequireRole(models.RolePaidUser, models.RoleAppAdmin), orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/public", orgHandler.ListPublicOrganizations)
			orgs.GET("/:id", middleware.RequireOrganizationMember(), orgHandler.GetOrganization)
			orgs.PUT("/:id", middleware.RequireOrganizationAdmin(), orgHandler.UpdateOrganization)
			orgs.DELETE("/:id", middleware.RequireOrganizationOwner(), orgHandler.DeleteOrganization)
			orgs.GET("/:id/membership", orgHandler.CheckMembership)
			orgs.POST("/:id/join", orgHandler.JoinOrganization)
			orgs.GET("/:id/members", middleware.RequireOrganizationMember(), orgHandler.ListMembers)
			orgs.PATCH("/:id/members/:user_id", middleware.RequireOrganizationAdmin(), orgHandler.UpdateMemberStatus)
			orgs.DELETE("/:id/members/:user_id", middleware.RequireOrganizationAdmin(), orgHandler.RemoveMember)
			orgs.POST("/:id/invitations", middleware.RequireOrganizationAdmin(), orgHandler.InviteByEmail)
			orgs.GET("/:id/invitations", middleware.RequireOrganizationAdmin(), orgHandler.ListInvitations)
			orgs.DELETE("/:id/invitations/:invitation_id", middleware.RequireOrganizationAdmin(), orgHandler.CancelInvitation)
			orgs.POST("/:id/invitations/accept", middleware.LoadUser(), orgHandler.AcceptInvitation)

			// Attendance events
			orgs.POST("/:id/events", middleware.RequireOrganizationAdmin(), eventHandler.CreateEvent)
			orgs.GET("/:id/events", middleware.RequireOrganizationMember(), eventHandler.ListEvents)
			orgs.GET("/:id/events/:event_id/attendances", middleware.RequireOrganizationAdmin(), eventHandler.ListAttendances)
		}

		// Business card routes (protected)
		cards := api.Group("/cards")
		cards.Use(middleware.RequireAuth())
		{
			cards.POST("", cardHandler.CreateCard)
			cards.GET("", cardHandler.ListCards)
			cards.GET("/:id", cardHandler.GetCard)
			cards.PUT("/:id", cardHandler.UpdateCard)
			cards.DELETE("/:id", cardHandler.DeleteCard)
			cards.POST("/:id/share", cardHandler.ShareCard)
			cards.POST("/suggest-bio", cardHandler.SuggestBio)
		}

		// Public card view via signed share token
		api.GET("/cards/shared/:token", cardHandler.GetSharedCard)

		// Template PIN verification (public, throttled)
		api.POST("/templates/verify-pin", templateHandler.VerifyPin)

		// Circle batch email (protected)
		api.POST("/email/circle", middleware.RequireAuth(), emailHandler.SendCircleEmail)

		// Public event check-in
		api.GET("/events/:slug", eventHandler.GetPublicEvent)
		api.POST("/events/:slug/checkin", eventHandler.CheckIn)

		// Payments
		payments := api.Group("/payments")
		payments.Use(middleware.RequireAuth())
		{
			payments.POST("", paymentHandler.SubmitPayment)
			payments.GET("", paymentHandler.ListMyPayments)
		}

		// Admin panel (APP_ADMIN only)
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAppAdmin))
		{
			admin.GET("/payments", paymentHandler.ListPayments)
			admin.PATCH("/payments/:id", paymentHandler.ReviewPayment)
			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
