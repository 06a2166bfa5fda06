package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"club-pulse/internal/config"
	"club-pulse/internal/database"
	"club-pulse/internal/engine"
	"club-pulse/internal/handlers"
	"club-pulse/internal/middleware"
	"club-pulse/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics := utils.NewMetricsCollector()

	// Connect to MongoDB
	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := db.Close(context.Background()); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	if err := db.EnsureUserIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create database indexes: %v", err)
	}

	// Initialize actor system and engine
	system := actor.NewActorSystem()
	pulseEngine := engine.NewEngine(system, db, metrics)

	server := handlers.NewServer(system, system.Root, pulseEngine, metrics, db)

	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)
	mux := http.NewServeMux()

	register := func(path string, handler http.HandlerFunc) {
		mux.HandleFunc(path, middleware.ApplyCORS(middleware.ApplyJWTMiddleware(handler, path), corsConfig))
	}

	register("/health", server.HandleHealth())
	register("/api/users/register", server.HandleRegister())
	register("/api/users/login", server.HandleLogin())
	register("/api/users/profile", server.HandleUserProfile())

	register("/api/discussions", server.HandleDiscussions())
	register("/api/discussions/comments", server.HandleDiscussionComments())
	register("/api/discussions/likes", server.HandleDiscussionLikes())

	register("/api/communities", server.HandleCommunities())
	register("/api/communities/join", server.HandleCommunityJoin())
	register("/api/communities/approve", server.HandleCommunityApprove())
	register("/api/communities/deny", server.HandleCommunityDeny())
	register("/api/communities/leave", server.HandleCommunityLeave())
	register("/api/communities/pending", server.HandleCommunityPending())
	register("/api/communities/notifications", server.HandleAdminNotifications())

	register("/api/posts", server.HandleCommunityPosts())
	register("/api/posts/likes", server.HandlePostLikes())
	register("/api/posts/comments", server.HandlePostComments())

	if cfg.Server.MetricsEnabled {
		register("/metrics", server.HandleMetrics())
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
