package handler

import (
	"context"
	"net/http"

	"quizzer/internal/core"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate -o fake -fake-name QuizService . QuizService
type QuizService interface {
	SignUp(ctx context.Context, msg core.SignupMessage) error
	Login(ctx context.Context, msg core.AuthMessage) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	Profile(ctx context.Context, userID string) (string, error)
}

//counterfeiter:generate -o fake -fake-name RequestValidator . RequestValidator
type RequestValidator interface {
	DecodeAndValidateJSONPayload(r *http.Request, object any) error
}
