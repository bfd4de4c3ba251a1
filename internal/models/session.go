package models

import (
	"fmt"

	"github.com/desertthunder/playx/internal/shared"
)

// Session is the credential set for authenticated calls: the xt and sjsaid cookies plus the bearer token.
//
// A Session is immutable once built and safe to share.
type Session struct {
	xt        string
	sjsaid    string
	authToken string
}

// NewSession builds a Session. All three values must be non-empty.
func NewSession(xt, sjsaid, authToken string) (*Session, error) {
	switch {
	case xt == "":
		return nil, fmt.Errorf("%w: xt cookie is empty", shared.ErrInvalidInput)
	case sjsaid == "":
		return nil, fmt.Errorf("%w: sjsaid cookie is empty", shared.ErrInvalidInput)
	case authToken == "":
		return nil, fmt.Errorf("%w: auth token is empty", shared.ErrInvalidInput)
	}
	return &Session{xt: xt, sjsaid: sjsaid, authToken: authToken}, nil
}

func (s *Session) XT() string        { return s.xt }
func (s *Session) SJSAID() string    { return s.sjsaid }
func (s *Session) AuthToken() string { return s.authToken }

// Cookies returns the cookie pair sent on authenticated calls.
func (s *Session) Cookies() map[string]string {
	return map[string]string{"xt": s.xt, "sjsaid": s.sjsaid}
}

// LoginResult is the terminal state of a login attempt.
type LoginResult int

const (
	LoginSuccess LoginResult = iota
	LoginBadCredentials
	LoginFailure
)

func (r LoginResult) String() string {
	switch r {
	case LoginSuccess:
		return "SUCCESS"
	case LoginBadCredentials:
		return "BAD_CREDENTIALS"
	case LoginFailure:
		return "FAILURE"
	default:
		return fmt.Sprintf("LoginResult(%d)", int(r))
	}
}

// LoginOutcome pairs a [LoginResult] with the Session produced on success.
type LoginOutcome struct {
	result  LoginResult
	session *Session
}

// NewLoginOutcome enforces that a session is present if and only if result is [LoginSuccess].
func NewLoginOutcome(result LoginResult, session *Session) (*LoginOutcome, error) {
	switch result {
	case LoginSuccess:
		if session == nil {
			return nil, fmt.Errorf("%w: successful login requires a session", shared.ErrInvalidInput)
		}
	case LoginBadCredentials, LoginFailure:
		if session != nil {
			return nil, fmt.Errorf("%w: %s login must not carry a session", shared.ErrInvalidInput, result)
		}
	default:
		return nil, fmt.Errorf("%w: unknown login result %d", shared.ErrInvalidInput, int(result))
	}
	return &LoginOutcome{result: result, session: session}, nil
}

func (o *LoginOutcome) Result() LoginResult { return o.result }

// Session returns the session, or nil unless the login succeeded.
func (o *LoginOutcome) Session() *Session { return o.session }

// Succeeded reports whether the result is [LoginSuccess].
func (o *LoginOutcome) Succeeded() bool { return o.result == LoginSuccess }
