package payload

import (
	"quizzer/internal/core"

	"github.com/jellydator/validation"
)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s SignupRequest) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Username, validation.Required),
		validation.Field(&s.Password, validation.Required),
	)
}

func (s SignupRequest) ToMessage() core.SignupMessage {
	return core.SignupMessage{
		Username: s.Username,
		Password: s.Password,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (l LoginRequest) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Username, validation.Required),
		validation.Field(&l.Password, validation.Required),
	)
}

func (l LoginRequest) ToMessage() core.AuthMessage {
	return core.AuthMessage{
		Username: l.Username,
		Password: l.Password,
	}
}
