package cmd

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quizzer/internal/config"
	"quizzer/internal/core"
	"quizzer/internal/db"
	"quizzer/internal/http/handler"
	"quizzer/internal/http/handler/middleware"
	"quizzer/internal/http/payload"
	"quizzer/internal/http/server"
	"quizzer/internal/quiz"
	"quizzer/internal/repository"
	"quizzer/pkg/jwt"
	"quizzer/pkg/log"
	"quizzer/pkg/password"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func Start() error {
	logger := log.NewZapLogger("quizzer", zapcore.InfoLevel)

	// .env is a local convenience; deployments set real environment variables
	if err := godotenv.Load(); err != nil {
		logger.Infow("no .env file found, using process environment")
	}

	cfg, err := config.NewApp()
	if err != nil {
		logger.Errorw("failed to create config", "error", err)
		return err
	}

	dbConn, err := db.NewPostgresDB(cfg.DBConnectionURL)
	if err != nil {
		logger.Errorw("failed to open database handle", "error", err)
		return err
	}

	// jwt service
	jwtService := jwt.NewJWTService([]byte(cfg.JWTSecret))

	// bcrypt work factor 10
	hasher := password.New(0)

	// repository
	repo := repository.NewUserRepository(dbConn)

	// an unreachable database is logged, not fatal: requests that touch the
	// store report 500 until connectivity returns
	if err := repo.Migrate(); err != nil {
		logger.Errorw("database migration failed, continuing without connectivity", "error", err)
	}

	// question bank
	questions := quiz.Default()
	if cfg.QuestionsFile != "" {
		questions, err = quiz.LoadFile(cfg.QuestionsFile)
		if err != nil {
			logger.Errorw("failed to load questions file", "error", err, "path", cfg.QuestionsFile)
			return err
		}
	}
	bank, err := quiz.NewBank(questions)
	if err != nil {
		logger.Errorw("invalid question set", "error", err)
		return err
	}

	// quizzer
	quizzer := core.NewQuizzer(
		logger,
		repo,
		jwtService,
		hasher)

	// handler
	quizHlr := handler.NewQuizHandler(
		logger,
		payload.DecodeValidator{},
		quizzer,
		bank)

	// middleware
	mux := http.NewServeMux()
	authMw := middleware.NewAuthMiddleware(logger, jwtService)
	hdlr := middleware.NewCORSMiddleware().CORS(mux)
	hdlr = middleware.NewLoggingMiddleware(logger).Logging(hdlr)
	hdlr = middleware.NewRequestIDMiddleware().RequestID(hdlr)

	// register routes
	mux.HandleFunc(handler.Signup, quizHlr.HandleSignup)
	mux.HandleFunc(handler.Login, quizHlr.HandleLogin)
	mux.HandleFunc(handler.VerifyToken, quizHlr.HandleVerifyToken)
	mux.HandleFunc(handler.Logout, quizHlr.HandleLogout)
	mux.HandleFunc(handler.Dashboard, quizHlr.HandleDashboard)
	mux.HandleFunc(handler.GetQuestions, quizHlr.HandleGetQuestions)
	mux.HandleFunc(handler.SubmitQuiz, quizHlr.HandleSubmitQuiz)
	mux.Handle(handler.GetProfile, authMw.Protect(http.HandlerFunc(quizHlr.HandleProfile)))

	srv := server.NewHTTP(logger, hdlr, cfg.Port)
	return run(srv)
}

func run(server *server.HTTPServer) error {
	// expect a signal to gracefully shutdown the server
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	errChan := server.Run()

	var err error
	select {
	case <-sig:
	case err = <-errChan:
	}

	sdErr := server.Shutdown()
	if err == http.ErrServerClosed && sdErr != nil {
		return fmt.Errorf("server shutdown: %w", sdErr)
	}

	return err
}
