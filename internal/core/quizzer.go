package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quizzer/internal/repository"
	tokenIssuer "quizzer/pkg/jwt"
	"quizzer/pkg/password"

	"go.uber.org/zap"
)

var ErrMissingFields error = errors.New("all fields are required")
var ErrIncorrectPassword error = errors.New("invalid credentials")
var ErrUserNotFound error = errors.New("user not found")
var ErrUserExists error = errors.New("user already exists")
var ErrTokenInvalid error = errors.New("invalid or expired token")

// tokenTTL is the session token lifetime.
const tokenTTL = time.Hour

// Quizzer is the application service behind the HTTP surface: account
// creation, credential checks, token issuance and token verification.
type Quizzer struct {
	logs      *zap.SugaredLogger
	repo      Repository
	jwtIssuer JWTIssuer
	hasher    password.Hasher
}

func NewQuizzer(logger *zap.SugaredLogger, repo Repository, jwt JWTIssuer, hasher password.Hasher) *Quizzer {
	return &Quizzer{
		logs:      logger,
		repo:      repo,
		jwtIssuer: jwt,
		hasher:    hasher,
	}
}

// SignUp hashes the password and stores a new credential record. The raw
// password is hashed as-is; only Login trims whitespace.
func (q *Quizzer) SignUp(ctx context.Context, msg SignupMessage) error {
	if msg.Username == "" || msg.Password == "" {
		return ErrMissingFields
	}

	_, err := q.repo.GetUserByUsername(ctx, msg.Username)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("check existing user: %w", err)
	}

	hash, err := q.hasher.Hash(msg.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := q.repo.CreateUser(ctx, msg.Username, hash)
	if err != nil {
		// the unique index can still fire between the lookup and the insert
		if errors.Is(err, repository.ErrUserExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	q.logs.Infow("user signed up", "userId", user.ID, "username", user.Username)
	return nil
}

// Login checks the credentials and issues a signed one-hour token embedding
// the user id. The password is trimmed of surrounding whitespace before the
// comparison; signup does not trim. That asymmetry is intentional.
func (q *Quizzer) Login(ctx context.Context, msg AuthMessage) (string, error) {
	if msg.Username == "" || msg.Password == "" {
		return "", ErrMissingFields
	}

	user, err := q.repo.GetUserByUsername(ctx, msg.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get user from db: %w", err)
	}

	if !q.hasher.Verify(strings.TrimSpace(msg.Password), user.PasswordHash) {
		return "", ErrIncorrectPassword
	}

	tokenInfo := tokenIssuer.TokenInfo{
		UserID:     user.ID,
		Expiration: tokenTTL,
	}
	token := q.jwtIssuer.Generate(tokenInfo)
	signed, err := q.jwtIssuer.Sign(token)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	q.logs.Infow("user logged in", "userId", user.ID, "username", user.Username)
	return signed, nil
}

// VerifyToken validates a token presented in a request body and resolves
// the embedded identity back to a username. It shares the verification
// function with the auth middleware.
func (q *Quizzer) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := q.jwtIssuer.Validate(token)
	if err != nil {
		q.logs.Infow("token rejected", "error", err)
		return "", ErrTokenInvalid
	}

	userID, err := tokenIssuer.UserIDClaim(claims)
	if err != nil {
		return "", ErrTokenInvalid
	}

	return q.usernameByID(ctx, userID)
}

// Profile resolves an already-authenticated user id (attached by the auth
// middleware) to a username.
func (q *Quizzer) Profile(ctx context.Context, userID string) (string, error) {
	return q.usernameByID(ctx, userID)
}

func (q *Quizzer) usernameByID(ctx context.Context, userID string) (string, error) {
	user, err := q.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get user by id: %w", err)
	}
	return user.Username, nil
}
