package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quizlingo/quizlingo-api/internal/auth"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	accountHandler *AccountHandler,
	resetHandler *ResetHandler,
	leaderboardHandler *LeaderboardHandler,
	achievementHandler *AchievementHandler,
	friendsHandler *FriendsHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Quizlingo API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	huma.Post(api, "/signup", accountHandler.HandleSignup)
	huma.Post(api, "/login", accountHandler.HandleLogin)
	huma.Get(api, "/achievements", achievementHandler.HandleListAchievements)

	huma.Post(api, "/password-reset/request", resetHandler.HandleRequestCode)
	huma.Post(api, "/password-reset/verify", resetHandler.HandleVerifyCode)
	huma.Post(api, "/password-reset/complete", resetHandler.HandleCompleteReset)

	// Discord account linking requires an existing session
	r.Group(func(r chi.Router) {
		r.Use(authHandler.AuthMiddleware)
		r.Get("/auth/discord/link", authHandler.HandleDiscordLink)
		r.Get("/auth/discord/callback", authHandler.HandleDiscordCallback)
	})

	withCookie := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}

	huma.Post(api, "/logout", accountHandler.HandleLogout, withCookie)
	huma.Get(api, "/me", accountHandler.HandleMe, withCookie)
	huma.Put(api, "/me", accountHandler.HandleUpdateProfile, withCookie)
	huma.Get(api, "/me/achievements", achievementHandler.HandleMyAchievements, withCookie)
	huma.Get(api, "/me/rank", leaderboardHandler.HandleMyRank, withCookie)
	huma.Get(api, "/leaderboard", leaderboardHandler.HandleLeaderboard, withCookie)
	huma.Post(api, "/friends", friendsHandler.HandleAddFriend, withCookie)
}
