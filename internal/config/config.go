package config

import (
	"errors"
	"fmt"
	"os"
)

var errEnvVarNotFound error = errors.New("environment variable not found")

const (
	apiPortEnvKey       = "API_PORT"
	dbConnEnvKey        = "DB_CONNECTION_URL"
	jwtSecretEnvKey     = "JWT_SECRET"
	questionsFileEnvKey = "QUESTIONS_FILE"

	defaultPort = "3000"
)

type App struct {
	Port            string
	DBConnectionURL string
	JWTSecret       string
	QuestionsFile   string
}

func NewApp() (App, error) {

	port, ok := os.LookupEnv(apiPortEnvKey)
	if !ok || port == "" {
		port = defaultPort
	}

	dbConn, ok := os.LookupEnv(dbConnEnvKey)
	if !ok {
		return App{}, fmt.Errorf("%w: %s", errEnvVarNotFound, dbConnEnvKey)
	}

	jwtSecret, ok := os.LookupEnv(jwtSecretEnvKey)
	if !ok {
		return App{}, fmt.Errorf("%w: %s", errEnvVarNotFound, jwtSecretEnvKey)
	}

	// optional: empty means the embedded default question set is used
	questionsFile := os.Getenv(questionsFileEnvKey)

	return App{
		Port:            port,
		DBConnectionURL: dbConn,
		JWTSecret:       jwtSecret,
		QuestionsFile:   questionsFile,
	}, nil
}
