package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/quizlingo/quizlingo-api/internal/achievements"
	"github.com/quizlingo/quizlingo-api/internal/auth"
	"github.com/quizlingo/quizlingo-api/internal/config"
	"github.com/quizlingo/quizlingo-api/internal/database"
	"github.com/quizlingo/quizlingo-api/internal/handlers"
	"github.com/quizlingo/quizlingo-api/internal/leaderboard"
	"github.com/quizlingo/quizlingo-api/internal/login"
	"github.com/quizlingo/quizlingo-api/internal/notifier"
	"github.com/quizlingo/quizlingo-api/internal/passreset"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)
	st := store.NewGormStore(db)

	// Achievement announcements are optional; skip when no bot is configured.
	var announcer notifier.Notifier
	if cfg.DiscordBotToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
		if err != nil {
			log.Printf("Discord notifier not initialized: %v", err)
		} else {
			announcer = notifier.NewDiscordNotifier(session, cfg.DiscordAnnouncementsChannelID)
		}
	}

	// Initialize Services
	loginService := login.NewService(st)
	resetService := passreset.NewService(st, passreset.LogMailer{})
	engine := achievements.NewEngine(st, announcer)
	ranker := leaderboard.NewRanker(st)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	accountHandler := handlers.NewAccountHandler(st, loginService, engine, authHandler)
	resetHandler := handlers.NewResetHandler(resetService)
	leaderboardHandler := handlers.NewLeaderboardHandler(ranker, authHandler)
	achievementHandler := handlers.NewAchievementHandler(st, authHandler)
	friendsHandler := handlers.NewFriendsHandler(st, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, accountHandler, resetHandler, leaderboardHandler, achievementHandler, friendsHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
