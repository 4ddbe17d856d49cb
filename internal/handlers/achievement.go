package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quizlingo/quizlingo-api/internal/auth"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

type AchievementHandler struct {
	store       store.Store
	authHandler *auth.AuthHandler
}

func NewAchievementHandler(s store.Store, a *auth.AuthHandler) *AchievementHandler {
	return &AchievementHandler{store: s, authHandler: a}
}

type AchievementSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity"`
	Metric      string `json:"metric"`
	Threshold   int    `json:"threshold"`
}

type ListAchievementsRequest struct{}

type ListAchievementsResponse struct {
	Body struct {
		Achievements []AchievementSummary `json:"achievements"`
	}
}

func (h *AchievementHandler) HandleListAchievements(ctx context.Context, _ *ListAchievementsRequest) (*ListAchievementsResponse, error) {
	all, err := h.store.GetAllAchievements(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load achievements: " + err.Error())
	}

	res := &ListAchievementsResponse{}
	res.Body.Achievements = make([]AchievementSummary, 0, len(all))
	for _, a := range all {
		res.Body.Achievements = append(res.Body.Achievements, AchievementSummary{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Rarity:      a.Rarity,
			Metric:      a.Metric,
			Threshold:   a.Threshold,
		})
	}
	return res, nil
}

type MyAchievementsRequest struct {
	auth.AuthInput
}

type AwardedAchievement struct {
	AchievementSummary
	AwardedAt time.Time `json:"awarded_at"`
}

type MyAchievementsResponse struct {
	Body struct {
		Achievements []AwardedAchievement `json:"achievements"`
	}
}

func (h *AchievementHandler) HandleMyAchievements(ctx context.Context, input *MyAchievementsRequest) (*MyAchievementsResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	grants, err := h.store.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load achievements: " + err.Error())
	}

	res := &MyAchievementsResponse{}
	res.Body.Achievements = make([]AwardedAchievement, 0, len(grants))
	for _, g := range grants {
		res.Body.Achievements = append(res.Body.Achievements, AwardedAchievement{
			AchievementSummary: AchievementSummary{
				ID:          g.Achievement.ID,
				Name:        g.Achievement.Name,
				Description: g.Achievement.Description,
				Rarity:      g.Achievement.Rarity,
				Metric:      g.Achievement.Metric,
				Threshold:   g.Achievement.Threshold,
			},
			AwardedAt: g.CreatedAt,
		})
	}
	return res, nil
}
