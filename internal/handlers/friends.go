package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quizlingo/quizlingo-api/internal/auth"
	"github.com/quizlingo/quizlingo-api/internal/store"
)

type FriendsHandler struct {
	store       store.Store
	authHandler *auth.AuthHandler
}

func NewFriendsHandler(s store.Store, a *auth.AuthHandler) *FriendsHandler {
	return &FriendsHandler{store: s, authHandler: a}
}

type AddFriendRequest struct {
	auth.AuthInput
	Body struct {
		FriendUsername string `json:"friend_username" doc:"Username of the user to befriend" required:"true"`
	}
}

type AddFriendResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *FriendsHandler) HandleAddFriend(ctx context.Context, input *AddFriendRequest) (*AddFriendResponse, error) {
	userID, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	friend, err := h.store.GetUserByUsername(ctx, input.Body.FriendUsername)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to look up user: " + err.Error())
	}
	if friend == nil {
		return nil, huma.Error404NotFound("User not found")
	}
	if friend.ID == userID {
		return nil, huma.Error400BadRequest("Cannot befriend yourself")
	}

	if err := h.store.AddFriend(ctx, userID, friend.ID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, huma.Error409Conflict("Already friends")
		}
		return nil, huma.Error500InternalServerError("Failed to add friend: " + err.Error())
	}

	res := &AddFriendResponse{}
	res.Body.Message = "Friend added"
	return res, nil
}
