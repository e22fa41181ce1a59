package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/clmgranada/intensivo-be/internal/api"
	"github.com/clmgranada/intensivo-be/internal/auth"
	"github.com/clmgranada/intensivo-be/internal/chat"
	"github.com/clmgranada/intensivo-be/internal/config"
	"github.com/clmgranada/intensivo-be/internal/database"
	"github.com/clmgranada/intensivo-be/internal/logger"
	"github.com/clmgranada/intensivo-be/internal/monitoring"
	"github.com/clmgranada/intensivo-be/internal/services"
)

func main() {
	// A .env file is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up websocket hub for the dashboard
	hub := chat.NewHub()
	go hub.Run()

	// Set up services
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	userService := services.NewUserService(db, cfg.BcryptCost)
	attendanceService := services.NewAttendanceService(db)
	forumService := services.NewForumService(db)
	chatService := services.NewChatService(db)
	resourceService := services.NewResourceService(db)

	// Set up and run the attendance housekeeping scheduler
	scheduler, err := monitoring.NewScheduler(attendanceService, cfg.AttendanceCloseSpec)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.AttendanceCloseSpec).Msg("Invalid attendance close schedule")
	}
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Config:     cfg,
		Tokens:     tokenService,
		Hub:        hub,
		Users:      userService,
		Attendance: attendanceService,
		Forum:      forumService,
		Chats:      chatService,
		Resources:  resourceService,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
