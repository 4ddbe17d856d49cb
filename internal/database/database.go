package database

import (
	"fmt"
	"log"

	"github.com/quizlingo/quizlingo-api/internal/achievements"
	"github.com/quizlingo/quizlingo-api/internal/config"
	"github.com/quizlingo/quizlingo-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.Achievement{},
		&models.AchievementGrant{},
		&models.Friendship{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	if err := SeedAchievements(db); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}

	return db
}

// SeedAchievements fills the achievement catalog: one tier per threshold per
// metric category. Safe to run on every start; existing names are kept.
func SeedAchievements(db *gorm.DB) error {
	metrics := []struct {
		metric string
		label  string
	}{
		{models.MetricStreak, "Day Streak"},
		{models.MetricQuizzesCompleted, "Quizzes Completed"},
		{models.MetricCoursesCompleted, "Courses Completed"},
	}

	for _, m := range metrics {
		for i, threshold := range achievements.Tiers {
			achievement := models.Achievement{
				Name:        fmt.Sprintf("%d %s", threshold, m.label),
				Description: fmt.Sprintf("Reach %d %s", threshold, m.label),
				Rarity:      rarityForTier(i),
				Metric:      m.metric,
				Threshold:   threshold,
			}
			err := db.Where(models.Achievement{Name: achievement.Name}).
				FirstOrCreate(&achievement).Error
			if err != nil {
				return fmt.Errorf("seed achievement %q: %w", achievement.Name, err)
			}
		}
	}
	return nil
}

func rarityForTier(tier int) string {
	switch {
	case tier >= 5:
		return "Legendary"
	case tier >= 3:
		return "Epic"
	case tier >= 1:
		return "Rare"
	default:
		return "Common"
	}
}
