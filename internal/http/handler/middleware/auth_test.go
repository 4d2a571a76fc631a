package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"quizzer/internal/http/handler/middleware"
	tokenIssuer "quizzer/pkg/jwt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("AuthMiddleware", func() {
	var (
		jwtService *tokenIssuer.JWTService
		authMw     *middleware.AuthMiddleware
		protected  http.Handler
		w          *httptest.ResponseRecorder
		req        *http.Request

		validToken string
		seenUserID string
		nextCalled bool
	)

	BeforeEach(func() {
		jwtService = tokenIssuer.NewJWTService([]byte("test-secret"))
		authMw = middleware.NewAuthMiddleware(zap.NewNop().Sugar(), jwtService)

		seenUserID = ""
		nextCalled = false
		protected = authMw.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			seenUserID, _ = r.Context().Value(middleware.UserIDKey).(string)
			w.WriteHeader(http.StatusOK)
		}))

		signed, err := jwtService.Sign(jwtService.Generate(tokenIssuer.TokenInfo{
			UserID:     "user-123",
			Expiration: time.Hour,
		}))
		Expect(err).NotTo(HaveOccurred())
		validToken = signed

		w = httptest.NewRecorder()
		req = httptest.NewRequest("GET", "/api/profile", nil)
	})

	AfterEach(func() {
		tokenIssuer.TimeNow = time.Now
	})

	JustBeforeEach(func() {
		protected.ServeHTTP(w, req)
	})

	rejectionMessage := func() string {
		var response map[string]string
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response["message"]
	}

	When("the Authorization header carries a Bearer token", func() {
		BeforeEach(func() {
			req.Header.Set("Authorization", "Bearer "+validToken)
		})

		It("should pass the request through with the user id attached", func() {
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())
			Expect(seenUserID).To(Equal("user-123"))
		})
	})

	When("the Authorization header carries a bare token", func() {
		BeforeEach(func() {
			req.Header.Set("Authorization", validToken)
		})

		It("should accept the token without the prefix", func() {
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seenUserID).To(Equal("user-123"))
		})
	})

	When("the Authorization header is missing", func() {
		It("should return 401 Unauthorized", func() {
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(rejectionMessage()).To(Equal("No token, authorization denied"))
			Expect(nextCalled).To(BeFalse())
		})
	})

	When("the token is malformed", func() {
		BeforeEach(func() {
			req.Header.Set("Authorization", "Bearer not.a.token")
		})

		It("should return 401 Unauthorized", func() {
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(rejectionMessage()).To(Equal("Token is not valid"))
			Expect(nextCalled).To(BeFalse())
		})
	})

	When("the token is signed with a different secret", func() {
		BeforeEach(func() {
			other := tokenIssuer.NewJWTService([]byte("other-secret"))
			signed, err := other.Sign(other.Generate(tokenIssuer.TokenInfo{
				UserID:     "user-123",
				Expiration: time.Hour,
			}))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+signed)
		})

		It("should return 401 Unauthorized", func() {
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(rejectionMessage()).To(Equal("Token is not valid"))
		})
	})

	When("the token has expired", func() {
		BeforeEach(func() {
			tokenIssuer.TimeNow = func() time.Time { return time.Now().Add(-2 * time.Hour) }
			signed, err := jwtService.Sign(jwtService.Generate(tokenIssuer.TokenInfo{
				UserID:     "user-123",
				Expiration: time.Hour,
			}))
			Expect(err).NotTo(HaveOccurred())
			tokenIssuer.TimeNow = time.Now

			req.Header.Set("Authorization", "Bearer "+signed)
		})

		It("should return 401 Unauthorized", func() {
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(rejectionMessage()).To(Equal("Token is not valid"))
			Expect(nextCalled).To(BeFalse())
		})
	})

	When("the token has no userId claim", func() {
		BeforeEach(func() {
			signed, err := jwtService.Sign(jwtService.Generate(tokenIssuer.TokenInfo{
				UserID:     "",
				Expiration: time.Hour,
			}))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+signed)
		})

		It("should return 401 Unauthorized", func() {
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(rejectionMessage()).To(Equal("Token is not valid"))
		})
	})
})
