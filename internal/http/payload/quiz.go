package payload

import "github.com/jellydator/validation"

// VerifyTokenRequest carries a token in the body, distinct from the
// header-based middleware path. A missing token is a 401 concern, not a
// validation failure, so the handler checks it instead of Validate.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type SubmitRequest struct {
	Answers []string `json:"answers"`
}

func (s SubmitRequest) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Answers, validation.Required),
	)
}
