package models

import (
	"gorm.io/gorm"
)

// Metric categories an achievement threshold can apply to.
const (
	MetricStreak           = "streak"
	MetricQuizzesCompleted = "quizzes_completed"
	MetricCoursesCompleted = "courses_completed"
)

// Achievement is immutable catalog data. Metric and Threshold carry the
// qualification rule explicitly instead of encoding it in the display name.
type Achievement struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Metric      string `gorm:"index" json:"metric"`
	Threshold   int    `json:"threshold"`
}

// AchievementGrant records that a user earned an achievement. The composite
// unique index keeps grants idempotent; CreatedAt is the award timestamp.
type AchievementGrant struct {
	gorm.Model
	AchievementID uint        `json:"achievement_id" gorm:"uniqueIndex:idx_user_achievement"`
	Achievement   Achievement `json:"achievement"`
	UserID        uint        `json:"user_id" gorm:"uniqueIndex:idx_user_achievement"`
	User          User        `json:"user"`
}
