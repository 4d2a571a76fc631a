package core_test

import (
	"context"
	"errors"
	"time"

	"quizzer/internal/core"
	"quizzer/internal/core/fake"
	"quizzer/internal/repository"
	tokenIssuer "quizzer/pkg/jwt"
	"quizzer/pkg/password"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Quizzer", func() {
	var (
		fakeRepo   *fake.Repository
		fakeJWT    *fake.JWTIssuer
		fakeLogger *zap.SugaredLogger
		hasher     password.Hasher
		ctx        context.Context

		quizzer *core.Quizzer

		fakeErr error
	)

	BeforeEach(func() {
		fakeRepo = new(fake.Repository)
		fakeJWT = new(fake.JWTIssuer)
		fakeLogger = zap.NewNop().Sugar()
		hasher = password.New(bcrypt.MinCost)
		ctx = context.Background()

		quizzer = core.NewQuizzer(fakeLogger, fakeRepo, fakeJWT, hasher)

		fakeErr = errors.New("fake error")
	})

	Describe("SignUp", func() {
		var (
			signupMsg core.SignupMessage
			err       error
			userId    string
		)

		BeforeEach(func() {
			userId = uuid.NewString()

			signupMsg = core.SignupMessage{
				Username: "testuser",
				Password: "testpass",
			}
		})

		JustBeforeEach(func() {
			err = quizzer.SignUp(ctx, signupMsg)
		})

		When("the username is free", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{}, repository.ErrUserNotFound)
				fakeRepo.CreateUserReturns(repository.User{
					ID:       userId,
					Username: signupMsg.Username,
				}, nil)
			})

			It("should store a hashed credential record", func() {
				Expect(err).NotTo(HaveOccurred())

				Expect(fakeRepo.GetUserByUsernameCallCount()).To(Equal(1))
				_, username := fakeRepo.GetUserByUsernameArgsForCall(0)
				Expect(username).To(Equal(signupMsg.Username))

				Expect(fakeRepo.CreateUserCallCount()).To(Equal(1))
				_, argUsername, argHash := fakeRepo.CreateUserArgsForCall(0)
				Expect(argUsername).To(Equal(signupMsg.Username))
				Expect(argHash).NotTo(Equal(signupMsg.Password))
				Expect(hasher.Verify(signupMsg.Password, argHash)).To(BeTrue())
			})
		})

		When("a field is missing", func() {
			BeforeEach(func() {
				signupMsg.Password = ""
			})

			It("should return missing fields error without touching the store", func() {
				Expect(err).To(MatchError(core.ErrMissingFields))
				Expect(fakeRepo.GetUserByUsernameCallCount()).To(Equal(0))
				Expect(fakeRepo.CreateUserCallCount()).To(Equal(0))
			})
		})

		When("the username is taken", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{
					ID:       userId,
					Username: signupMsg.Username,
				}, nil)
			})

			It("should return user exists error", func() {
				Expect(err).To(MatchError(core.ErrUserExists))
				Expect(fakeRepo.CreateUserCallCount()).To(Equal(0))
			})
		})

		When("the existence check fails", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{}, fakeErr)
			})

			It("should return the error", func() {
				Expect(err).To(MatchError(fakeErr))
			})
		})

		When("the insert loses the race on the unique index", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{}, repository.ErrUserNotFound)
				fakeRepo.CreateUserReturns(repository.User{}, repository.ErrUserExists)
			})

			It("should return user exists error", func() {
				Expect(err).To(MatchError(core.ErrUserExists))
			})
		})

		When("the insert fails", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{}, repository.ErrUserNotFound)
				fakeRepo.CreateUserReturns(repository.User{}, fakeErr)
			})

			It("should return the error", func() {
				Expect(err).To(MatchError(fakeErr))
			})
		})
	})

	Describe("Login", func() {
		var (
			authMsg        core.AuthMessage
			token          string
			err            error
			userId         string
			hashedPassword string
			genToken       *jwt.Token
		)

		BeforeEach(func() {
			userId = uuid.NewString()
			hashedPassword = "$2a$10$1MZHKX./8Dxi9t.F1/gnx.njCcEty299Hx01GLEms2moa3brpT0ky" // bcrypt hash of "testpass"
			genToken = jwt.New(jwt.SigningMethodHS256)

			authMsg = core.AuthMessage{
				Username: "testuser",
				Password: "testpass",
			}
		})

		JustBeforeEach(func() {
			token, err = quizzer.Login(ctx, authMsg)
		})

		When("user exists and password matches", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{
					ID:           userId,
					Username:     authMsg.Username,
					PasswordHash: hashedPassword,
				}, nil)

				fakeJWT.GenerateReturns(genToken)
				fakeJWT.SignReturns("signed.token", nil)
			})

			It("should return a signed one-hour token", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(token).To(Equal("signed.token"))

				Expect(fakeJWT.GenerateCallCount()).To(Equal(1))
				argGen := fakeJWT.GenerateArgsForCall(0)
				Expect(argGen).To(Equal(tokenIssuer.TokenInfo{
					UserID:     userId,
					Expiration: time.Hour,
				}))

				Expect(fakeJWT.SignCallCount()).To(Equal(1))
				argSign := fakeJWT.SignArgsForCall(0)
				Expect(argSign).To(Equal(genToken))
			})
		})

		When("the password carries surrounding whitespace", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{
					ID:           userId,
					Username:     authMsg.Username,
					PasswordHash: hashedPassword,
				}, nil)
				fakeJWT.GenerateReturns(genToken)
				fakeJWT.SignReturns("signed.token", nil)

				authMsg.Password = "  testpass \n"
			})

			It("should trim before comparing", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(token).To(Equal("signed.token"))
			})
		})

		When("a field is missing", func() {
			BeforeEach(func() {
				authMsg.Username = ""
			})

			It("should return missing fields error", func() {
				Expect(err).To(MatchError(core.ErrMissingFields))
				Expect(fakeRepo.GetUserByUsernameCallCount()).To(Equal(0))
			})
		})

		When("user does not exist", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{}, repository.ErrUserNotFound)
			})

			It("should return user not found error", func() {
				Expect(err).To(MatchError(core.ErrUserNotFound))
			})
		})

		When("password does not match", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{
					Username:     authMsg.Username,
					PasswordHash: hashedPassword,
				}, nil)
				authMsg.Password = "wrongpass"
			})

			It("should return incorrect password error", func() {
				Expect(err).To(MatchError(core.ErrIncorrectPassword))
				Expect(fakeJWT.GenerateCallCount()).To(Equal(0))
			})
		})

		When("token signing fails", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByUsernameReturns(repository.User{
					ID:           userId,
					Username:     authMsg.Username,
					PasswordHash: hashedPassword,
				}, nil)
				fakeJWT.GenerateReturns(genToken)
				fakeJWT.SignReturns("", fakeErr)
			})

			It("should return signing error", func() {
				Expect(err).To(MatchError(fakeErr))
			})
		})
	})

	Describe("VerifyToken", func() {
		var (
			token    string
			username string
			err      error
			userId   string
		)

		BeforeEach(func() {
			token = "valid.token"
			userId = uuid.NewString()
		})

		JustBeforeEach(func() {
			username, err = quizzer.VerifyToken(ctx, token)
		})

		When("the token is valid", func() {
			BeforeEach(func() {
				fakeJWT.ValidateReturns(jwt.MapClaims{"userId": userId}, nil)
				fakeRepo.GetUserByIDReturns(repository.User{
					ID:       userId,
					Username: "testuser",
				}, nil)
			})

			It("should resolve the embedded identity to a username", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(username).To(Equal("testuser"))

				Expect(fakeJWT.ValidateCallCount()).To(Equal(1))
				Expect(fakeJWT.ValidateArgsForCall(0)).To(Equal(token))

				Expect(fakeRepo.GetUserByIDCallCount()).To(Equal(1))
				_, argID := fakeRepo.GetUserByIDArgsForCall(0)
				Expect(argID).To(Equal(userId))
			})
		})

		When("the token fails validation", func() {
			BeforeEach(func() {
				fakeJWT.ValidateReturns(nil, fakeErr)
			})

			It("should return token invalid error", func() {
				Expect(err).To(MatchError(core.ErrTokenInvalid))
				Expect(fakeRepo.GetUserByIDCallCount()).To(Equal(0))
			})
		})

		When("the token has no userId claim", func() {
			BeforeEach(func() {
				fakeJWT.ValidateReturns(jwt.MapClaims{"sub": userId}, nil)
			})

			It("should return token invalid error", func() {
				Expect(err).To(MatchError(core.ErrTokenInvalid))
			})
		})

		When("the embedded user no longer exists", func() {
			BeforeEach(func() {
				fakeJWT.ValidateReturns(jwt.MapClaims{"userId": userId}, nil)
				fakeRepo.GetUserByIDReturns(repository.User{}, repository.ErrUserNotFound)
			})

			It("should return user not found error", func() {
				Expect(err).To(MatchError(core.ErrUserNotFound))
			})
		})
	})

	Describe("Profile", func() {
		var (
			username string
			err      error
			userId   string
		)

		BeforeEach(func() {
			userId = uuid.NewString()
		})

		JustBeforeEach(func() {
			username, err = quizzer.Profile(ctx, userId)
		})

		When("the user exists", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByIDReturns(repository.User{
					ID:       userId,
					Username: "testuser",
				}, nil)
			})

			It("should return the username", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(username).To(Equal("testuser"))
			})
		})

		When("the user does not exist", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByIDReturns(repository.User{}, repository.ErrUserNotFound)
			})

			It("should return user not found error", func() {
				Expect(err).To(MatchError(core.ErrUserNotFound))
			})
		})

		When("the lookup fails", func() {
			BeforeEach(func() {
				fakeRepo.GetUserByIDReturns(repository.User{}, fakeErr)
			})

			It("should return the error", func() {
				Expect(err).To(MatchError(fakeErr))
			})
		})
	})
})
