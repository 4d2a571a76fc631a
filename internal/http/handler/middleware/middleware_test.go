package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"quizzer/internal/http/handler/middleware"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("RequestIDMiddleware", func() {
	var (
		handler http.Handler
		w       *httptest.ResponseRecorder
		req     *http.Request
		seenID  string
	)

	BeforeEach(func() {
		seenID = ""
		handler = middleware.NewRequestIDMiddleware().RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenID, _ = r.Context().Value(middleware.RequestIDKey).(string)
		}))

		w = httptest.NewRecorder()
		req = httptest.NewRequest("GET", "/api/questions", nil)
	})

	JustBeforeEach(func() {
		handler.ServeHTTP(w, req)
	})

	When("the request carries no id", func() {
		It("should generate one and echo it back", func() {
			Expect(uuid.Validate(seenID)).To(Succeed())
			Expect(w.Header().Get("X-Request-Id")).To(Equal(seenID))
		})
	})

	When("the request carries an id", func() {
		BeforeEach(func() {
			req.Header.Set("X-Request-Id", "client-id-1")
		})

		It("should keep the client id", func() {
			Expect(seenID).To(Equal("client-id-1"))
			Expect(w.Header().Get("X-Request-Id")).To(Equal("client-id-1"))
		})
	})
})

var _ = Describe("CORSMiddleware", func() {
	var (
		handler    http.Handler
		w          *httptest.ResponseRecorder
		nextCalled bool
	)

	BeforeEach(func() {
		nextCalled = false
		handler = middleware.NewCORSMiddleware().CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		}))

		w = httptest.NewRecorder()
	})

	When("the request is a preflight", func() {
		It("should short-circuit with 204", func() {
			handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/login", nil))

			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(nextCalled).To(BeFalse())
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
			Expect(w.Header().Get("Access-Control-Allow-Headers")).To(Equal("Content-Type, Authorization"))
		})
	})

	When("the request is a regular call", func() {
		It("should attach the headers and pass through", func() {
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/questions", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(nextCalled).To(BeTrue())
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("should preserve the wrapped handler's status code", func() {
		handler := middleware.NewLoggingMiddleware(zap.NewNop().Sugar()).Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

		Expect(w.Code).To(Equal(http.StatusTeapot))
	})
})
