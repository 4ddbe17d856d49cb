package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/quizlingo/quizlingo-api/internal/passreset"
)

type ResetHandler struct {
	reset *passreset.Service
}

func NewResetHandler(r *passreset.Service) *ResetHandler {
	return &ResetHandler{reset: r}
}

type RequestCodeRequest struct {
	Body struct {
		Email string `json:"email" doc:"Email to send the verification code to" required:"true" format:"email"`
	}
}

type RequestCodeResponse struct {
	Body struct {
		SessionID string `json:"session_id" doc:"Id of the reset session the code belongs to"`
		Message   string `json:"message"`
	}
}

func (h *ResetHandler) HandleRequestCode(ctx context.Context, input *RequestCodeRequest) (*RequestCodeResponse, error) {
	sessionID, err := h.reset.RequestCode(ctx, input.Body.Email)
	if err != nil {
		if errors.Is(err, passreset.ErrInvalidEmail) {
			return nil, huma.Error400BadRequest("Invalid email")
		}
		return nil, huma.Error500InternalServerError("Failed to send verification code: " + err.Error())
	}

	res := &RequestCodeResponse{}
	res.Body.SessionID = sessionID.String()
	res.Body.Message = "Verification code sent"
	return res, nil
}

type VerifyCodeRequest struct {
	Body struct {
		Email string `json:"email" doc:"Email the code was sent to" required:"true" format:"email"`
		Code  string `json:"code" doc:"6-digit verification code" required:"true"`
	}
}

type VerifyCodeResponse struct {
	Body struct {
		Verified bool `json:"verified"`
	}
}

func (h *ResetHandler) HandleVerifyCode(_ context.Context, input *VerifyCodeRequest) (*VerifyCodeResponse, error) {
	res := &VerifyCodeResponse{}
	res.Body.Verified = h.reset.VerifyCode(input.Body.Email, input.Body.Code)
	return res, nil
}

type CompleteResetRequest struct {
	Body struct {
		Email       string `json:"email" doc:"Email of the account" required:"true" format:"email"`
		NewPassword string `json:"new_password" doc:"Replacement password" required:"true" minLength:"6"`
	}
}

type CompleteResetResponse struct {
	Body struct {
		Reset bool `json:"reset"`
	}
}

func (h *ResetHandler) HandleCompleteReset(ctx context.Context, input *CompleteResetRequest) (*CompleteResetResponse, error) {
	ok, err := h.reset.ResetPassword(ctx, input.Body.Email, input.Body.NewPassword)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to reset password: " + err.Error())
	}

	res := &CompleteResetResponse{}
	res.Body.Reset = ok
	return res, nil
}
