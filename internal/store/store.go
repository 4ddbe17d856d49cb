// Package store is the persistence collaborator the core services depend on.
// Lookups that find nothing return (nil, nil); only storage failures and
// invalid arguments are errors.
package store

import (
	"context"
	"errors"

	"github.com/quizlingo/quizlingo-api/internal/models"
)

var (
	// ErrInvalidArgument is returned for blank usernames or emails passed
	// to lookup operations.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNilUser is returned when a nil user is passed to a save operation.
	ErrNilUser = errors.New("user is nil")
	// ErrDuplicate is returned when an insert collides with a unique index,
	// such as a taken username or an already-held achievement.
	ErrDuplicate = errors.New("duplicate record")
)

// RankedUser is one row of a leaderboard query: the identity fields plus
// both rankable metrics, so the caller picks whichever criteria it needs.
type RankedUser struct {
	UserID           uint
	Username         string
	ProfileImage     string
	QuizzesCompleted int
	Accuracy         float64
}

type Store interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (uint, error)
	UpdateUser(ctx context.Context, user *models.User) error

	GetAllAchievements(ctx context.Context) ([]models.Achievement, error)
	GetUserAchievements(ctx context.Context, userID uint) ([]models.AchievementGrant, error)
	AwardAchievement(ctx context.Context, userID, achievementID uint) error

	TopUsersByCompletedQuizzes(ctx context.Context) ([]RankedUser, error)
	TopUsersByAccuracy(ctx context.Context) ([]RankedUser, error)
	TopFriendsByCompletedQuizzes(ctx context.Context, userID uint) ([]RankedUser, error)
	TopFriendsByAccuracy(ctx context.Context, userID uint) ([]RankedUser, error)
	AddFriend(ctx context.Context, userID, friendID uint) error
}
