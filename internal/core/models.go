package core

type SignupMessage struct {
	Username string
	Password string
}

type AuthMessage struct {
	Username string
	Password string
}
