package handler

const oopsErr = "Oops! Something went wrong. Please try again later."

// Response is the wire shape shared by most routes: a human message, an
// optional token and an optional error detail.
type Response struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyResponse is the verify-token wire shape with its explicit success flag.
type VerifyResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

type ScoreResponse struct {
	Score int `json:"score"`
}

type ProfileResponse struct {
	Username string `json:"username"`
}
