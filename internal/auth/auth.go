package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quizlingo/quizlingo-api/internal/config"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

const cookieName = "auth_token"

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:  db,
		cfg: cfg,
	}
}

// AuthInput carries the raw Cookie header into huma operations that
// authorize explicitly.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie"`
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// SessionCookie builds the auth cookie for a freshly issued token.
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
}

// ExpiredSessionCookie clears the auth cookie on logout.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     cookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	}
}

// Authorize extracts and validates the session token from a raw Cookie
// header, returning the user id it was issued for.
func (h *AuthHandler) Authorize(_ context.Context, cookieHeader string) (uint, error) {
	tokenString, err := tokenFromCookieHeader(cookieHeader)
	if err != nil {
		return 0, huma.Error401Unauthorized("No token found")
	}

	userID, _, err := h.parseToken(tokenString)
	if err != nil {
		return 0, huma.Error401Unauthorized("Invalid token")
	}
	return userID, nil
}

func (h *AuthHandler) parseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, jwt.ErrTokenInvalidClaims
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, time.Time{}, jwt.ErrTokenInvalidClaims
	}

	var expiresAt time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}
	return uint(userIDFloat), expiresAt, nil
}

// tokenFromCookieHeader pulls the auth cookie out of a raw Cookie header by
// reusing net/http's cookie parsing.
func tokenFromCookieHeader(cookieHeader string) (string, error) {
	header := http.Header{}
	header.Add("Cookie", cookieHeader)
	request := http.Request{Header: header}
	cookie, err := request.Cookie(cookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
