// Package achievements evaluates a user's progress metrics against the
// achievement catalog and grants whatever tiers they newly qualify for.
package achievements

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/quizlingo/quizlingo-api/internal/models"
	"github.com/quizlingo/quizlingo-api/internal/notifier"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

// Threshold tiers seeded for every metric category.
var Tiers = []int{10, 50, 100, 250, 500, 1000}

type Engine struct {
	store    store.Store
	notifier notifier.Notifier
}

// NewEngine builds an engine. notifier may be nil; announcements are then
// skipped.
func NewEngine(s store.Store, n notifier.Notifier) *Engine {
	return &Engine{store: s, notifier: n}
}

// Award grants every achievement the user qualifies for and does not yet
// hold. A metric value equal to the threshold qualifies. The check-then-grant
// sequence is not locked; callers serialize awards per user. Already-held and
// unqualified achievements are silent no-ops, so calling Award again with
// unchanged metrics grants nothing.
func (e *Engine) Award(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("award achievements: %w", store.ErrNilUser)
	}

	all, err := e.store.GetAllAchievements(ctx)
	if err != nil {
		return err
	}
	granted, err := e.store.GetUserAchievements(ctx, user.ID)
	if err != nil {
		return err
	}

	held := make(map[uint]struct{}, len(granted))
	for _, g := range granted {
		held[g.AchievementID] = struct{}{}
	}

	for _, a := range all {
		if _, ok := held[a.ID]; ok {
			continue
		}
		value, known := metricValue(user, a.Metric)
		if !known || value < a.Threshold {
			continue
		}
		if err := e.store.AwardAchievement(ctx, user.ID, a.ID); err != nil {
			// A concurrent sweep may have granted it between the read
			// above and this insert; the grant already exists, move on.
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return err
		}
		if e.notifier != nil {
			if err := e.notifier.AnnounceAchievement(*user, a); err != nil {
				log.Printf("Failed to announce achievement %q: %v", a.Name, err)
			}
		}
	}

	return nil
}

// metricValue maps a metric category to the user's current value for it.
// Unknown categories report known=false and never qualify.
func metricValue(user *models.User, metric string) (value int, known bool) {
	switch metric {
	case models.MetricStreak:
		return user.Streak, true
	case models.MetricQuizzesCompleted:
		return user.QuizzesCompleted, true
	case models.MetricCoursesCompleted:
		return user.CoursesCompleted, true
	default:
		return 0, false
	}
}
