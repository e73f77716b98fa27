package server

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"anoa.com/inventorybackend/internal/entity"
	"anoa.com/inventorybackend/internal/middleware"
	"anoa.com/inventorybackend/pkg/mailer"
	"anoa.com/inventorybackend/pkg/storage"

	categoryHttp "anoa.com/inventorybackend/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/inventorybackend/internal/modules/category/repository"
	categoryService "anoa.com/inventorybackend/internal/modules/category/service"

	otpRepo "anoa.com/inventorybackend/internal/modules/otp/repository"
	otpService "anoa.com/inventorybackend/internal/modules/otp/service"

	searchService "anoa.com/inventorybackend/internal/modules/search/service"

	userHttp "anoa.com/inventorybackend/internal/modules/user/delivery/http"
	userRepo "anoa.com/inventorybackend/internal/modules/user/repository"
	userService "anoa.com/inventorybackend/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	userRepository := userRepo.NewUserRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	// Initialize Meilisearch only when configured; without it every
	// search is served straight from the store.
	var categoryIndex searchService.CategoryIndex
	if meiliHost := os.Getenv("MEILISEARCH_HOST"); meiliHost != "" {
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
		categoryIndex = searchService.NewMeiliCategoryIndex(meiliClient)
	} else {
		log.Println("MEILISEARCH_HOST not set, category search served from the store")
	}

	otpRepository := otpRepo.NewOtpRepository(db)
	otpSvc := otpService.NewOtpService(otpRepository, redisClient)

	mail := mailer.NewSMTPMailer()

	authSvc := userService.NewAuthService(userRepository, otpSvc, mail)
	authHandler := userHttp.NewAuthHandler(authSvc)

	userSvc := userService.NewUserService(userRepository, imageStorage)
	userHandler := userHttp.NewUserHandler(userSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(db)
	categorySvc := categoryService.NewCategoryService(categoryRepository, imageStorage, categoryIndex)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	// Expired one-time codes pile up in the log table; sweep them in the
	// background.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := otpSvc.PurgeExpired(context.Background()); err != nil {
				log.Printf("Failed to purge expired otp codes: %v", err)
			}
		}
	}()

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepository)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.POST("/send-otp", authHandler.SendOtp)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/users/profile", userHandler.GetProfile)
		protected.PUT("/users/profile", userHandler.UpdateProfile)

		// User administration
		adminUsers := protected.Group("/users")
		adminUsers.Use(authMiddleware.RequireRoles(entity.RoleAdmin))
		{
			adminUsers.GET("", userHandler.GetAllUsers)
			adminUsers.GET("/employees", userHandler.GetActiveEmployees)
			adminUsers.GET("/:id", userHandler.GetUserByID)
			adminUsers.PATCH("/:id/status", userHandler.UpdateUserStatus)
		}

		// Category routes
		categories := protected.Group("/categories")
		categories.Use(authMiddleware.RequireRoles(entity.RoleAdmin, entity.RoleEmployee))
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("", categoryHandler.GetAllCategories)
			categories.GET("/main", categoryHandler.GetMainCategories)
			categories.GET("/tree", categoryHandler.GetCategoryTree)
			categories.GET("/search", categoryHandler.SearchCategories)
			categories.GET("/parent/:parentId", categoryHandler.GetSubcategories)
			categories.GET("/:id", categoryHandler.GetCategoryByID)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
		}

		// Status toggle and delete are admin-only
		categoryAdmin := protected.Group("/categories")
		categoryAdmin.Use(authMiddleware.RequireRoles(entity.RoleAdmin))
		{
			categoryAdmin.PATCH("/:id/status", categoryHandler.ToggleCategoryStatus)
			categoryAdmin.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
