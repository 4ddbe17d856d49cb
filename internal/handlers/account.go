package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quizlingo/quizlingo-api/internal/achievements"
	"github.com/quizlingo/quizlingo-api/internal/auth"
	"github.com/quizlingo/quizlingo-api/internal/login"
	"github.com/quizlingo/quizlingo-api/internal/models"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

type AccountHandler struct {
	store       store.Store
	login       *login.Service
	engine      *achievements.Engine
	authHandler *auth.AuthHandler
}

func NewAccountHandler(s store.Store, l *login.Service, e *achievements.Engine, a *auth.AuthHandler) *AccountHandler {
	return &AccountHandler{store: s, login: l, engine: e, authHandler: a}
}

type SignupRequest struct {
	Body struct {
		Username string `json:"username" doc:"Account username" required:"true" minLength:"3"`
		Email    string `json:"email" doc:"Account email" required:"true" format:"email"`
		Password string `json:"password" doc:"Account password" required:"true" minLength:"6"`
	}
}

type SignupResponse struct {
	Body struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
}

func (h *AccountHandler) HandleSignup(ctx context.Context, input *SignupRequest) (*SignupResponse, error) {
	existing, err := h.store.GetUserByUsername(ctx, input.Body.Username)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check username: " + err.Error())
	}
	if existing != nil {
		return nil, huma.Error409Conflict("Username already taken")
	}

	existing, err = h.store.GetUserByEmail(ctx, input.Body.Email)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check email: " + err.Error())
	}
	if existing != nil {
		return nil, huma.Error409Conflict("Email already registered")
	}

	user := models.User{
		Username:     input.Body.Username,
		Email:        input.Body.Email,
		Password:     input.Body.Password,
		ProfileImage: "default.jpg",
	}
	id, err := h.store.CreateUser(ctx, &user)
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent signup can slip past the lookups above; the unique
		// indexes catch it.
		return nil, huma.Error409Conflict("Username or email already taken")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to create user: " + err.Error())
	}

	res := &SignupResponse{}
	res.Body.ID = id
	res.Body.Username = user.Username
	return res, nil
}

type LoginRequest struct {
	Body struct {
		Username string `json:"username" doc:"Account username" required:"true"`
		Password string `json:"password" doc:"Account password" required:"true"`
	}
}

type LoginResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Online   bool   `json:"online"`
	}
}

func (h *AccountHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	user, err := h.login.GetUserByCredentials(ctx, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to check credentials: " + err.Error())
	}
	if user == nil {
		return nil, huma.Error401Unauthorized("Invalid username or password")
	}

	token, err := h.authHandler.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	// Fresh login may follow progress made elsewhere; sweep for new grants.
	if err := h.engine.Award(ctx, user); err != nil {
		log.Printf("Achievement sweep on login failed for user %d: %v", user.ID, err)
	}

	res := &LoginResponse{SetCookie: *auth.SessionCookie(token)}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.Online = user.Online
	return res, nil
}

type LogoutRequest struct {
	auth.AuthInput
}

type LogoutResponse struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *AccountHandler) HandleLogout(ctx context.Context, input *LogoutRequest) (*LogoutResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load user: " + err.Error())
	}
	if user == nil {
		return nil, huma.Error404NotFound("User not found")
	}

	if err := h.login.MarkLoggedOut(ctx, user); err != nil {
		return nil, huma.Error500InternalServerError("Failed to log out: " + err.Error())
	}

	res := &LogoutResponse{SetCookie: *auth.ExpiredSessionCookie()}
	res.Body.Message = "Logged out"
	return res, nil
}

type UpdateProfileRequest struct {
	auth.AuthInput
	Body struct {
		Private      *bool   `json:"private,omitempty" doc:"Hide the profile from other users"`
		ProfileImage *string `json:"profile_image,omitempty" doc:"Profile image file name"`
	}
}

type UpdateProfileResponse struct {
	Body struct {
		Private      bool   `json:"private"`
		ProfileImage string `json:"profile_image"`
	}
}

// HandleUpdateProfile saves the profile settings. Omitted fields keep their
// current value.
func (h *AccountHandler) HandleUpdateProfile(ctx context.Context, input *UpdateProfileRequest) (*UpdateProfileResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load user: " + err.Error())
	}
	if user == nil {
		return nil, huma.Error404NotFound("User not found")
	}

	if input.Body.Private != nil {
		user.Private = *input.Body.Private
	}
	if input.Body.ProfileImage != nil {
		user.ProfileImage = *input.Body.ProfileImage
	}
	if err := h.store.UpdateUser(ctx, user); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save profile: " + err.Error())
	}

	res := &UpdateProfileResponse{}
	res.Body.Private = user.Private
	res.Body.ProfileImage = user.ProfileImage
	return res, nil
}

type MeRequest struct {
	auth.AuthInput
}

type MeResponse struct {
	Body struct {
		ID               uint       `json:"id"`
		Username         string     `json:"username"`
		Email            string     `json:"email"`
		Private          bool       `json:"private"`
		Online           bool       `json:"online"`
		ProfileImage     string     `json:"profile_image"`
		JoinedAt         time.Time  `json:"joined_at"`
		TotalPoints      int        `json:"total_points"`
		CoursesCompleted int        `json:"courses_completed"`
		QuizzesCompleted int        `json:"quizzes_completed"`
		Streak           int        `json:"streak"`
		LastActivityAt   *time.Time `json:"last_activity_at"`
		Accuracy         float64    `json:"accuracy"`
		DiscordLinked    bool       `json:"discord_linked"`
	}
}

// HandleMe returns the profile and runs the achievement sweep, mirroring the
// app's behavior of granting on profile load.
func (h *AccountHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load user: " + err.Error())
	}
	if user == nil {
		return nil, huma.Error404NotFound("User not found")
	}

	if err := h.engine.Award(ctx, user); err != nil {
		log.Printf("Achievement sweep failed for user %d: %v", user.ID, err)
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.Email = user.Email
	res.Body.Private = user.Private
	res.Body.Online = user.Online
	res.Body.ProfileImage = user.ProfileImage
	res.Body.JoinedAt = user.CreatedAt
	res.Body.TotalPoints = user.TotalPoints
	res.Body.CoursesCompleted = user.CoursesCompleted
	res.Body.QuizzesCompleted = user.QuizzesCompleted
	res.Body.Streak = user.Streak
	res.Body.LastActivityAt = user.LastActivityAt
	res.Body.Accuracy = user.Accuracy
	res.Body.DiscordLinked = user.DiscordID != ""
	return res, nil
}
