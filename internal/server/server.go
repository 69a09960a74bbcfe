package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamtrack/internal/auth"
	"teamtrack/internal/authz"
	"teamtrack/internal/config"
	"teamtrack/internal/handler"
	"teamtrack/internal/middleware"
	"teamtrack/internal/model"
	"teamtrack/internal/notify"
	"teamtrack/internal/repository"
	"teamtrack/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Hub    *notify.Hub
	Config *config.Config
}

func Init(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logger.Info("connected to database")

	if err := db.AutoMigrate(
		&model.User{},
		&model.AuthToken{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Task{},
		&model.Reminder{},
		&model.Attachment{},
		&model.TeamMember{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Setup Gin
	r := gin.New()
	r.Use(gin.Recovery(), middleware.GinZapMiddleware(logger), middleware.CORS(cfg.ClientOrigin))

	// Shared broadcast hub, injected into the services
	hub := notify.NewHub()
	engine := authz.New()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	googleProvider := auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	authService := service.NewAuthService(userRepo, tokenRepo, taskRepo, jwtService)
	projectService := service.NewProjectService(projectRepo, userRepo, engine, hub)
	taskService := service.NewTaskService(taskRepo, projectRepo, engine, hub)
	teamService := service.NewTeamService(teamRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, googleProvider, cfg.ClientOrigin)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	teamHandler := handler.NewTeamHandler(teamService)
	eventsHandler := handler.NewEventsHandler(hub)

	authRequired := middleware.AuthMiddleware(authService)

	// Auth routes
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/login/success", authHandler.LoginSuccess)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/google", authHandler.GoogleLogin)
		authGroup.GET("/google/callback", authHandler.GoogleCallback)

		authGroup.PUT("/profile", authRequired, authHandler.UpdateProfile)
		authGroup.PATCH("/role", authRequired, authHandler.ChangeRole)
		authGroup.GET("/admin/users", authRequired, authHandler.AdminListUsers)
		authGroup.DELETE("/admin/user/:id", authRequired, authHandler.AdminDeleteUser)
		authGroup.GET("/admin/tasks", authRequired, authHandler.AdminListTasks)
		authGroup.DELETE("/admin/task/:id", authRequired, authHandler.AdminDeleteTask)
	}

	// API routes - require authentication
	api := r.Group("/api")
	api.Use(authRequired)
	{
		// Project routes
		api.GET("/projects", projectHandler.List)
		api.POST("/projects", projectHandler.Create)
		api.GET("/projects/:id", projectHandler.Get)
		api.PUT("/projects/:id", projectHandler.Update)
		api.DELETE("/projects/:id", projectHandler.Delete)
		api.POST("/projects/:id/invite", projectHandler.Invite)
		api.DELETE("/projects/:id/member/:userId", projectHandler.RemoveMember)
		api.PUT("/projects/:id/member/:userId/role", projectHandler.ChangeMemberRole)
		api.GET("/projects/:id/team", projectHandler.Team)

		// Task routes
		api.GET("/tasks/project/:projectId", taskHandler.ListByProject)
		api.GET("/tasks/my-tasks", taskHandler.MyTasks)
		api.GET("/tasks/stats", taskHandler.Stats)
		api.GET("/tasks/suggestions", taskHandler.Suggestions)
		api.POST("/tasks", taskHandler.Create)
		api.GET("/tasks/:id", taskHandler.Get)
		api.PUT("/tasks/:id", taskHandler.Update)
		api.PATCH("/tasks/:id/status", taskHandler.UpdateStatus)
		api.PATCH("/tasks/:id/bookmark", taskHandler.ToggleBookmark)
		api.DELETE("/tasks/:id", taskHandler.Delete)
		api.POST("/tasks/:id/reminders", taskHandler.AddReminder)
		api.DELETE("/tasks/:id/reminders/:reminderId", taskHandler.RemoveReminder)
		api.POST("/tasks/:id/attachments", taskHandler.AddAttachment)
		api.PATCH("/tasks/:id/complete", taskHandler.Complete)

		// Flat roster routes
		api.GET("/team", teamHandler.List)
		api.POST("/team", teamHandler.Add)
		api.PUT("/team/:id", teamHandler.UpdateRole)
		api.DELETE("/team/:id", teamHandler.Delete)

		// Real-time event stream
		api.GET("/events", eventsHandler.Subscribe)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Hub:    hub,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		zap.L().Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Fatal("server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("server exited properly")
}
