package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quizlingo/quizlingo-api/internal/achievements"
	"github.com/quizlingo/quizlingo-api/internal/auth"
	"github.com/quizlingo/quizlingo-api/internal/config"
	"github.com/quizlingo/quizlingo-api/internal/database"
	"github.com/quizlingo/quizlingo-api/internal/login"
	"github.com/quizlingo/quizlingo-api/internal/models"
	"github.com/quizlingo/quizlingo-api/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type accountEnv struct {
	db          *gorm.DB
	store       *store.GormStore
	authHandler *auth.AuthHandler
	handler     *AccountHandler
}

func newAccountEnv(t *testing.T) accountEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Achievement{}, &models.AchievementGrant{}, &models.Friendship{})
	if err != nil {
		t.Fatalf("failed to auto migrate: %v", err)
	}
	if err := database.SeedAchievements(db); err != nil {
		t.Fatalf("failed to seed achievements: %v", err)
	}

	st := store.NewGormStore(db)
	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	engine := achievements.NewEngine(st, nil)
	handler := NewAccountHandler(st, login.NewService(st), engine, authHandler)
	return accountEnv{db: db, store: st, authHandler: authHandler, handler: handler}
}

func TestHandleSignup(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	req := SignupRequest{}
	req.Body.Username = "alice"
	req.Body.Email = "alice@example.com"
	req.Body.Password = "secret1"

	resp, err := env.handler.HandleSignup(ctx, &req)
	if err != nil {
		t.Fatalf("HandleSignup returned error: %v", err)
	}
	if resp.Body.ID == 0 {
		t.Error("expected a non-zero user id")
	}

	if _, err := env.handler.HandleSignup(ctx, &req); err == nil {
		t.Error("expected duplicate signup to fail")
	}
}

// blindStore never sees existing users, so signup's pre-checks pass and the
// unique index has to catch the collision, as with two concurrent signups.
type blindStore struct {
	store.Store
}

func (s *blindStore) GetUserByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}

func (s *blindStore) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, nil
}

func TestHandleSignup_ConcurrentDuplicateIsConflict(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	user := models.User{Username: "erin", Email: "erin@example.com", Password: "pw"}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	handler := NewAccountHandler(&blindStore{Store: env.store}, login.NewService(env.store),
		achievements.NewEngine(env.store, nil), env.authHandler)

	req := SignupRequest{}
	req.Body.Username = "erin"
	req.Body.Email = "erin@example.com"
	req.Body.Password = "secret1"
	_, err := handler.HandleSignup(ctx, &req)
	if err == nil {
		t.Fatal("expected duplicate signup to fail")
	}
	var se huma.StatusError
	if !errors.As(err, &se) || se.GetStatus() != http.StatusConflict {
		t.Errorf("expected 409 conflict, got %v", err)
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	user := models.User{Username: "grace", Email: "grace@example.com", Password: "pw", ProfileImage: "default.jpg"}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, _ := env.authHandler.GenerateToken(user.ID)

	private := true
	image := "owl.png"
	req := UpdateProfileRequest{}
	req.Cookie = "auth_token=" + token
	req.Body.Private = &private
	req.Body.ProfileImage = &image
	resp, err := env.handler.HandleUpdateProfile(ctx, &req)
	if err != nil {
		t.Fatalf("HandleUpdateProfile returned error: %v", err)
	}
	if !resp.Body.Private || resp.Body.ProfileImage != "owl.png" {
		t.Errorf("expected updated settings in response, got %+v", resp.Body)
	}

	var stored models.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !stored.Private {
		t.Error("expected persisted private flag")
	}
	if stored.ProfileImage != "owl.png" {
		t.Errorf("expected persisted profile image, got %q", stored.ProfileImage)
	}

	// An omitted field keeps its value.
	public := false
	partial := UpdateProfileRequest{}
	partial.Cookie = "auth_token=" + token
	partial.Body.Private = &public
	if _, err := env.handler.HandleUpdateProfile(ctx, &partial); err != nil {
		t.Fatalf("HandleUpdateProfile returned error: %v", err)
	}
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.Private {
		t.Error("expected private flag cleared")
	}
	if stored.ProfileImage != "owl.png" {
		t.Errorf("expected profile image untouched, got %q", stored.ProfileImage)
	}
}

func TestHandleLogin(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	user := models.User{Username: "bob", Email: "bob@example.com", Password: "secret1"}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	req := LoginRequest{}
	req.Body.Username = "bob"
	req.Body.Password = "wrong"
	if _, err := env.handler.HandleLogin(ctx, &req); err == nil {
		t.Error("expected login with wrong password to fail")
	}

	req.Body.Password = "secret1"
	resp, err := env.handler.HandleLogin(ctx, &req)
	if err != nil {
		t.Fatalf("HandleLogin returned error: %v", err)
	}
	if !resp.Body.Online {
		t.Error("expected user to be online after login")
	}
	if resp.SetCookie.Name != "auth_token" || resp.SetCookie.Value == "" {
		t.Errorf("expected a session cookie, got %+v", resp.SetCookie)
	}

	var stored models.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if !stored.Online {
		t.Error("expected persisted online flag")
	}
}

func TestHandleMe_RunsAchievementSweep(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	user := models.User{Username: "carol", Email: "carol@example.com", Password: "pw", Streak: 15, QuizzesCompleted: 5}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, _ := env.authHandler.GenerateToken(user.ID)

	req := MeRequest{}
	req.Cookie = "auth_token=" + token
	resp, err := env.handler.HandleMe(ctx, &req)
	if err != nil {
		t.Fatalf("HandleMe returned error: %v", err)
	}
	if resp.Body.Username != "carol" {
		t.Errorf("expected carol, got %s", resp.Body.Username)
	}

	// Streak 15 crosses the seeded 10 Day Streak tier; nothing else does.
	var grants []models.AchievementGrant
	if err := env.db.Preload("Achievement").Where("user_id = ?", user.ID).Find(&grants).Error; err != nil {
		t.Fatalf("failed to load grants: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected exactly 1 grant, got %d", len(grants))
	}
	if grants[0].Achievement.Name != "10 Day Streak" {
		t.Errorf("expected 10 Day Streak, got %q", grants[0].Achievement.Name)
	}
}

func TestHandleMe_Unauthenticated(t *testing.T) {
	env := newAccountEnv(t)

	req := MeRequest{}
	if _, err := env.handler.HandleMe(context.Background(), &req); err == nil {
		t.Fatal("expected error for unauthenticated request, got nil")
	}
}

func TestHandleLogout(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	user := models.User{Username: "dave", Email: "dave@example.com", Password: "pw", Online: true}
	if err := env.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, _ := env.authHandler.GenerateToken(user.ID)

	req := LogoutRequest{}
	req.Cookie = "auth_token=" + token
	resp, err := env.handler.HandleLogout(ctx, &req)
	if err != nil {
		t.Fatalf("HandleLogout returned error: %v", err)
	}
	if resp.SetCookie.MaxAge != -1 {
		t.Errorf("expected cookie to be expired, got MaxAge %d", resp.SetCookie.MaxAge)
	}

	var stored models.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if stored.Online {
		t.Error("expected user to be offline after logout")
	}
	if stored.LastActivityAt == nil {
		t.Error("expected last activity to be stamped on logout")
	}
}
