package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinema-scheduler-cli/model"
)

// ErrInvalidCredentials is returned when the submitted pair does not match the
// configured credential pair exactly.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator checks a single fixed credential pair after a simulated delay.
// The delay stands in for a network round trip; an in-flight login is
// cancellable through the context.
type Authenticator struct {
	username string
	password string
	delay    time.Duration
}

func NewAuthenticator(username, password string, delay time.Duration) *Authenticator {
	return &Authenticator{username: username, password: password, delay: delay}
}

// Login waits the configured delay, then compares the pair case-sensitively.
// On success it mints a session with an admin role; on mismatch it returns
// ErrInvalidCredentials. Cancelling ctx aborts the wait.
func (a *Authenticator) Login(ctx context.Context, username, password string) (model.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return model.Session{}, ErrInvalidCredentials
	}

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.Session{}, ctx.Err()
		case <-timer.C:
		}
	}

	if username != a.username || password != a.password {
		return model.Session{}, ErrInvalidCredentials
	}
	return model.Session{
		User:     model.User{Username: username, Role: "admin"},
		Token:    uuid.NewString(),
		IssuedAt: time.Now(),
	}, nil
}
