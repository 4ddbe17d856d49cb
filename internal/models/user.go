package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account plus the progress metrics the achievement engine and
// leaderboards read. Password is stored as an opaque value and compared
// verbatim; CreatedAt doubles as the join date.
type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex" json:"username"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Password     string `json:"-"`
	Private      bool   `json:"private"`
	Online       bool   `json:"online"`
	ProfileImage string `json:"profile_image"`

	TotalPoints      int        `json:"total_points"`
	CoursesCompleted int        `json:"courses_completed"`
	QuizzesCompleted int        `json:"quizzes_completed"`
	Streak           int        `json:"streak"`
	LastActivityAt   *time.Time `json:"last_activity_at"`
	Accuracy         float64    `json:"accuracy"`

	// Set by the Discord account-linking flow, empty until linked.
	DiscordID string `json:"discord_id,omitempty"`
}
