package handler

import (
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"

	"quizzer/internal/core"
	"quizzer/internal/http/handler/middleware"
	"quizzer/internal/http/payload"
	"quizzer/internal/quiz"

	"github.com/jellydator/validation"
	"go.uber.org/zap"
)

var (
	Signup       = "POST /signup"
	Login        = "POST /login"
	VerifyToken  = "POST /verify-token"
	Logout       = "POST /logout"
	Dashboard    = "GET /dashboard"
	GetQuestions = "GET /api/questions"
	SubmitQuiz   = "POST /submit-quiz"
	GetProfile   = "GET /api/profile"
)

//go:embed static/dashboard.html
var dashboardHTML []byte

type QuizHandler struct {
	logs             *zap.SugaredLogger
	requestValidator RequestValidator
	quizzer          QuizService
	bank             *quiz.Bank
}

func NewQuizHandler(logger *zap.SugaredLogger, requestValidator RequestValidator, quizService QuizService, bank *quiz.Bank) *QuizHandler {
	return &QuizHandler{
		logs:             logger,
		requestValidator: requestValidator,
		quizzer:          quizService,
		bank:             bank,
	}
}

func (h *QuizHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.SignupRequest
	if err := h.requestValidator.DecodeAndValidateJSONPayload(r, &req); err != nil {
		h.respond(w, Response{Message: badRequestMessage(err)}, http.StatusBadRequest, requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", Signup,
			"request_id", requestId)
		return
	}

	if err := h.quizzer.SignUp(r.Context(), req.ToMessage()); err != nil {
		httpCode := http.StatusInternalServerError
		resp := Response{}
		switch {
		case errors.Is(err, core.ErrMissingFields):
			httpCode = http.StatusBadRequest
			resp.Message = "All fields are required"
		case errors.Is(err, core.ErrUserExists):
			httpCode = http.StatusBadRequest
			resp.Message = "User already exists"
		default:
			resp.Message = "Error signing up"
			resp.Error = err.Error()
		}

		h.respond(w, resp, httpCode, requestId)
		h.logs.Errorw("signup failed",
			"error", err,
			"handler", Signup,
			"request_id", requestId)
		return
	}

	h.respond(w, Response{Message: "Signup successful!"}, http.StatusCreated, requestId)
}

func (h *QuizHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.LoginRequest
	if err := h.requestValidator.DecodeAndValidateJSONPayload(r, &req); err != nil {
		h.respond(w, Response{Message: badRequestMessage(err)}, http.StatusBadRequest, requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", Login,
			"request_id", requestId)
		return
	}

	token, err := h.quizzer.Login(r.Context(), req.ToMessage())
	if err != nil {
		httpCode := http.StatusInternalServerError
		resp := Response{}
		switch {
		case errors.Is(err, core.ErrMissingFields):
			httpCode = http.StatusBadRequest
			resp.Message = "All fields are required"
		case errors.Is(err, core.ErrUserNotFound):
			httpCode = http.StatusNotFound
			resp.Message = "User not found"
		case errors.Is(err, core.ErrIncorrectPassword):
			httpCode = http.StatusBadRequest
			resp.Message = "Invalid credentials"
		default:
			resp.Message = "Error logging in"
			resp.Error = err.Error()
		}

		h.respond(w, resp, httpCode, requestId)
		h.logs.Errorw("login failed",
			"error", err,
			"handler", Login,
			"request_id", requestId)
		return
	}

	h.respond(w, Response{Token: token, Message: "Login successful!"}, http.StatusOK, requestId)
}

// HandleVerifyToken accepts a token in the request body, re-validates it
// through the same verification function the middleware uses, and resolves
// the embedded identity to a username.
func (h *QuizHandler) HandleVerifyToken(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.VerifyTokenRequest
	if err := h.requestValidator.DecodeAndValidateJSONPayload(r, &req); err != nil {
		h.respond(w, VerifyResponse{Success: false, Message: "Invalid request payload"}, http.StatusBadRequest, requestId)
		h.logs.Errorw("failed to decode request payload",
			"error", err,
			"handler", VerifyToken,
			"request_id", requestId)
		return
	}

	if req.Token == "" {
		h.respond(w, VerifyResponse{Success: false, Message: "No token provided"}, http.StatusUnauthorized, requestId)
		return
	}

	username, err := h.quizzer.VerifyToken(r.Context(), req.Token)
	if err != nil {
		httpCode := http.StatusInternalServerError
		resp := VerifyResponse{Success: false}
		switch {
		case errors.Is(err, core.ErrTokenInvalid):
			httpCode = http.StatusUnauthorized
			resp.Message = "Invalid or expired token"
		case errors.Is(err, core.ErrUserNotFound):
			httpCode = http.StatusNotFound
			resp.Message = "User not found"
		default:
			resp.Message = "Error verifying token"
		}

		h.respond(w, resp, httpCode, requestId)
		h.logs.Errorw("token verification failed",
			"error", err,
			"handler", VerifyToken,
			"request_id", requestId)
		return
	}

	h.respond(w, VerifyResponse{Success: true, Username: username}, http.StatusOK, requestId)
}

// HandleLogout acknowledges the request; tokens are stateless and the server
// holds no session record to invalidate.
func (h *QuizHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, Response{Message: "Logout successful!"}, http.StatusOK, requestID(r))
}

func (h *QuizHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(dashboardHTML); err != nil {
		h.logs.Errorw("failed to write dashboard page", "error", err, "request_id", requestID(r))
	}
}

func (h *QuizHandler) HandleGetQuestions(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.bank.Questions(), http.StatusOK, requestID(r))
}

func (h *QuizHandler) HandleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	var req payload.SubmitRequest
	if err := h.requestValidator.DecodeAndValidateJSONPayload(r, &req); err != nil {
		h.respond(w, Response{Message: "Invalid request payload"}, http.StatusBadRequest, requestId)
		h.logs.Errorw("failed to decode and validate request payload",
			"error", err,
			"handler", SubmitQuiz,
			"request_id", requestId)
		return
	}

	h.respond(w, ScoreResponse{Score: h.bank.Score(req.Answers)}, http.StatusOK, requestId)
}

// HandleProfile runs behind the auth middleware and reads the user id the
// middleware attached to the context.
func (h *QuizHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	requestId := requestID(r)

	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	if userID == "" {
		h.respond(w, Response{Message: "No token, authorization denied"}, http.StatusUnauthorized, requestId)
		return
	}

	username, err := h.quizzer.Profile(r.Context(), userID)
	if err != nil {
		httpCode := http.StatusInternalServerError
		resp := Response{}
		if errors.Is(err, core.ErrUserNotFound) {
			httpCode = http.StatusNotFound
			resp.Message = "User not found"
		} else {
			resp.Message = "Error fetching profile"
			resp.Error = err.Error()
		}

		h.respond(w, resp, httpCode, requestId)
		h.logs.Errorw("profile lookup failed",
			"error", err,
			"handler", GetProfile,
			"request_id", requestId)
		return
	}

	h.respond(w, ProfileResponse{Username: username}, http.StatusOK, requestId)
}

func (h *QuizHandler) respond(w http.ResponseWriter, resp any, code int, requestId string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, oopsErr, http.StatusInternalServerError)
		h.logs.Errorw("failed to encode response",
			"error", err,
			"request_id", requestId)
	}
}

func requestID(r *http.Request) string {
	if val := r.Context().Value(middleware.RequestIDKey); val != nil {
		return val.(string)
	}
	return ""
}

// badRequestMessage maps validation failures to the missing-fields message
// the clients expect, keeping decode failures distinguishable.
func badRequestMessage(err error) string {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		return "All fields are required"
	}
	return "Invalid request payload"
}
