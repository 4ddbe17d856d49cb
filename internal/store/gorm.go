package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quizlingo/quizlingo-api/internal/models"
	"gorm.io/gorm"
)

// leaderboardLimit mirrors the TOP 10 the original leaderboard queries used.
const leaderboardLimit = 10

// GormStore implements Store on a gorm database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("get user by username: %w", ErrInvalidArgument)
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("get user by email: %w", ErrInvalidArgument)
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) (uint, error) {
	if user == nil {
		return 0, fmt.Errorf("create user: %w", ErrNilUser)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("create user: %w", translateDuplicate(err))
	}
	return user.ID, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("update user: %w", ErrNilUser)
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *GormStore) GetAllAchievements(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := s.db.WithContext(ctx).Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("get all achievements: %w", err)
	}
	return achievements, nil
}

func (s *GormStore) GetUserAchievements(ctx context.Context, userID uint) ([]models.AchievementGrant, error) {
	var grants []models.AchievementGrant
	err := s.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("get user achievements: %w", err)
	}
	return grants, nil
}

func (s *GormStore) AwardAchievement(ctx context.Context, userID, achievementID uint) error {
	grant := models.AchievementGrant{UserID: userID, AchievementID: achievementID}
	if err := s.db.WithContext(ctx).Create(&grant).Error; err != nil {
		return fmt.Errorf("award achievement: %w", translateDuplicate(err))
	}
	return nil
}

func (s *GormStore) TopUsersByCompletedQuizzes(ctx context.Context) ([]RankedUser, error) {
	return s.topUsers(ctx, "quizzes_completed DESC")
}

func (s *GormStore) TopUsersByAccuracy(ctx context.Context) ([]RankedUser, error) {
	return s.topUsers(ctx, "accuracy DESC")
}

func (s *GormStore) topUsers(ctx context.Context, order string) ([]RankedUser, error) {
	var rows []RankedUser
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id AS user_id, username, profile_image, quizzes_completed, accuracy").
		Order(order).
		Limit(leaderboardLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	return rows, nil
}

func (s *GormStore) TopFriendsByCompletedQuizzes(ctx context.Context, userID uint) ([]RankedUser, error) {
	return s.topFriends(ctx, userID, "users.quizzes_completed DESC")
}

func (s *GormStore) TopFriendsByAccuracy(ctx context.Context, userID uint) ([]RankedUser, error) {
	return s.topFriends(ctx, userID, "users.accuracy DESC")
}

func (s *GormStore) topFriends(ctx context.Context, userID uint, order string) ([]RankedUser, error) {
	var rows []RankedUser
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Select("users.id AS user_id, users.username, users.profile_image, users.quizzes_completed, users.accuracy").
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ? AND friendships.deleted_at IS NULL", userID).
		Order(order).
		Limit(leaderboardLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top friends: %w", err)
	}
	return rows, nil
}

func (s *GormStore) AddFriend(ctx context.Context, userID, friendID uint) error {
	friendship := models.Friendship{UserID: userID, FriendID: friendID}
	if err := s.db.WithContext(ctx).Create(&friendship).Error; err != nil {
		return fmt.Errorf("add friend: %w", translateDuplicate(err))
	}
	return nil
}

// translateDuplicate folds the driver's unique-constraint error into
// ErrDuplicate so callers can errors.Is it. Requires TranslateError on the
// gorm config.
func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}
