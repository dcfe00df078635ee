package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/mentorlink/attendance-portal/docs"
	"github.com/mentorlink/attendance-portal/internal/api/handler"
	"github.com/mentorlink/attendance-portal/internal/api/middleware"
	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
	"github.com/mentorlink/attendance-portal/internal/core/service"
	mongodb "github.com/mentorlink/attendance-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/mentorlink/attendance-portal/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, dispatcher ports.AlertDispatcher, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("attendance"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	studentRepo := mongodb.NewStudentRepository(db)
	messageRepo := mongodb.NewMessageRepository(db)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	studentService := service.NewStudentService(studentRepo, userRepo, log)
	chatService := service.NewChatService(messageRepo, studentRepo, userRepo, log)
	alertService := service.NewAlertService(studentService, redisdb.NewAlertThrottle(rdb), dispatcher, log)

	authHandler := handler.NewAuthHandler(authService)
	menteeHandler := handler.NewMenteeHandler(studentService, alertService)
	parentHandler := handler.NewParentHandler(studentService)
	chatHandler := handler.NewChatHandler(chatService)

	authMW := middleware.Auth(jwtSecret)
	mentorOnly := middleware.RBAC(domain.RoleMentor)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMW)

	// --- Mentor routes ---
	mentee := e.Group("/api/mentee", authMW, mentorOnly)
	mentee.GET("/stats", menteeHandler.Stats)
	mentee.GET("/students", menteeHandler.List)
	mentee.GET("/students/:id", menteeHandler.Get)
	mentee.PUT("/students/:id", menteeHandler.Update)
	mentee.POST("/upload", menteeHandler.Upload)
	mentee.POST("/students/:id/send-alert", menteeHandler.SendAlert)

	// --- Parent routes ---
	parent := e.Group("/api/parent", authMW)
	parent.GET("/child/:identifier", parentHandler.Child)
	parent.GET("/dashboard", parentHandler.Dashboard)

	// --- Chat routes ---
	chat := e.Group("/api/chat", authMW)
	chat.GET("/contacts", chatHandler.Contacts)
	chat.GET("/history/:targetId", chatHandler.History)
	chat.POST("/send", chatHandler.Send)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
