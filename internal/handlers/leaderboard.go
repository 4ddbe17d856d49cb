package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quizlingo/quizlingo-api/internal/auth"
	"github.com/quizlingo/quizlingo-api/internal/leaderboard"
)

type LeaderboardHandler struct {
	ranker      *leaderboard.Ranker
	authHandler *auth.AuthHandler
}

func NewLeaderboardHandler(r *leaderboard.Ranker, a *auth.AuthHandler) *LeaderboardHandler {
	return &LeaderboardHandler{ranker: r, authHandler: a}
}

type LeaderboardRequest struct {
	auth.AuthInput
	Scope    string `query:"scope" enum:"global,friends" default:"global" doc:"Board scope"`
	Criteria string `query:"criteria" default:"CompletedQuizzes" doc:"Ranking metric: CompletedQuizzes or Accuracy"`
}

type LeaderboardResponse struct {
	Body struct {
		Entries []leaderboard.Entry `json:"entries"`
	}
}

func (h *LeaderboardHandler) HandleLeaderboard(ctx context.Context, input *LeaderboardRequest) (*LeaderboardResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	scope, criteria, err := parseBoard(input.Scope, input.Criteria, userID)
	if err != nil {
		return nil, err
	}

	entries, err := h.ranker.Rank(ctx, scope, criteria)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to build leaderboard: " + err.Error())
	}

	res := &LeaderboardResponse{}
	res.Body.Entries = entries
	return res, nil
}

type MyRankRequest struct {
	auth.AuthInput
	Scope    string `query:"scope" enum:"global,friends" default:"global" doc:"Board scope"`
	Criteria string `query:"criteria" default:"CompletedQuizzes" doc:"Ranking metric: CompletedQuizzes or Accuracy"`
}

type MyRankResponse struct {
	Body struct {
		Rank int `json:"rank" doc:"1-based rank, or -1 when not on the board"`
	}
}

func (h *LeaderboardHandler) HandleMyRank(ctx context.Context, input *MyRankRequest) (*MyRankResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	scope, criteria, err := parseBoard(input.Scope, input.Criteria, userID)
	if err != nil {
		return nil, err
	}

	rank, err := h.ranker.CurrentUserRank(ctx, userID, scope, criteria)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to compute rank: " + err.Error())
	}

	res := &MyRankResponse{}
	res.Body.Rank = rank
	return res, nil
}

func parseBoard(scope, rawCriteria string, userID uint) (leaderboard.Scope, leaderboard.Criteria, error) {
	criteria, err := leaderboard.ParseCriteria(rawCriteria)
	if err != nil {
		if errors.Is(err, leaderboard.ErrUnsupportedCriteria) {
			return leaderboard.Scope{}, "", huma.Error422UnprocessableEntity(err.Error())
		}
		return leaderboard.Scope{}, "", huma.Error500InternalServerError(err.Error())
	}

	if scope == "friends" {
		return leaderboard.FriendsOf(userID), criteria, nil
	}
	return leaderboard.Global(), criteria, nil
}
