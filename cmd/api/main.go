package main

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "medrelease/api/swagger" // swagger docs
	"medrelease/internal/backup"
	"medrelease/internal/handler"
	"medrelease/internal/middleware"
	"medrelease/internal/service"
	"medrelease/internal/store"
	"medrelease/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Medical Release Tracker API
// @version         1.0
// @description     Record-tracking backend for medical-information-release requests, backed by a single JSON document.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = filepath.Join(dataDir, "backups")
	}

	// Load (and migrate) the document before anything can touch it
	st := store.New(filepath.Join(dataDir, "document.json"))
	if err := st.Load(); err != nil {
		log.Fatalf("Document store load failed: %v", err)
	}
	log.Printf("Document store ready at %s", st.Path())

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	mgr, err := backup.NewManager(backupDir, st, wsHub)
	if err != nil {
		log.Fatalf("Backup manager init failed: %v", err)
	}
	scheduler := backup.NewScheduler(mgr, st)
	scheduler.Restart()

	// Set up dependencies (Store -> Service -> Handler)
	requestService := service.NewRequestService(st, wsHub)
	noteService := service.NewNoteService(st, wsHub)
	userService := service.NewUserService(st)
	settingsService := service.NewSettingsService(st, scheduler)
	refService := service.NewReferenceService(st)

	// Initialize Handlers
	requestHandler := handler.NewRequestHandler(requestService)
	noteHandler := handler.NewNoteHandler(noteService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	backupHandler := handler.NewBackupHandler(mgr)
	refHandler := handler.NewReferenceHandler(refService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:5173,http://127.0.0.1:5173"
	}
	corsConfig.AllowOrigins = strings.Split(origins, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	userHandler.RegisterRoutes(router.Group(""))
	requestHandler.RegisterRoutes(router.Group(""))
	noteHandler.RegisterRoutes(router.Group(""))
	settingsHandler.RegisterRoutes(router.Group(""))
	backupHandler.RegisterRoutes(router.Group(""))
	refHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
