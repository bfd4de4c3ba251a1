package services

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playx/internal/models"
	"github.com/desertthunder/playx/internal/rest"
	"github.com/desertthunder/playx/internal/shared"
)

const (
	clientLoginPath = "/accounts/ClientLogin"
	listenPath      = "/music/listen"
	serviceName     = "sj"
	authMarker      = "Auth="
	authScheme      = "GoogleLogin auth="
	xtCookie        = "xt"
	sjsaidCookie    = "sjsaid"
)

// PlayService talks to the music service through a [Sender].
//
// It holds no mutable state; one instance can serve any number of sessions.
type PlayService struct {
	sender Sender
	config shared.ServiceConfig
	logger *log.Logger
}

// NewPlayService creates a PlayService that sends requests to the hosts in cfg.
func NewPlayService(sender Sender, cfg shared.ServiceConfig, logger *log.Logger) *PlayService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlayService{sender: sender, config: cfg, logger: logger}
}

// Login runs the credential exchange followed by the token exchange.
//
// Status-driven results are reported through the outcome; only invalid input and transport
// failures return an error.
func (s *PlayService) Login(ctx context.Context, email, password string) (*models.LoginOutcome, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	resp, err := s.sender.Post(ctx, rest.Request{
		Secure: s.config.Secure,
		Host:   s.config.IdentityHost,
		Path:   clientLoginPath,
		Form:   map[string]string{"service": serviceName, "Email": email, "Passwd": password},
	})
	if err != nil {
		return nil, err
	}

	if result, done := statusOutcome(resp.StatusCode); done {
		s.logger.Warn("credential exchange rejected", "status", resp.StatusCode, "result", result)
		return models.NewLoginOutcome(result, nil)
	}

	token, err := ExtractAuthToken(resp.Body)
	if err != nil {
		s.logger.Warn("credential exchange returned no token", "error", err)
		return models.NewLoginOutcome(models.LoginFailure, nil)
	}

	header, err := AuthHeaderValue(token)
	if err != nil {
		return nil, err
	}

	resp, err = s.sender.Post(ctx, rest.Request{
		Secure:  s.config.Secure,
		Host:    s.config.AppHost,
		Path:    listenPath,
		Query:   map[string]string{"hl": s.config.Locale, "u": "0"},
		Headers: map[string]string{"Authorization": header},
	})
	if err != nil {
		return nil, err
	}

	if result, done := statusOutcome(resp.StatusCode); done {
		s.logger.Warn("token exchange rejected", "status", resp.StatusCode, "result", result)
		return models.NewLoginOutcome(result, nil)
	}

	session, err := models.NewSession(resp.Cookies[xtCookie], resp.Cookies[sjsaidCookie], token)
	if err != nil {
		s.logger.Warn("token exchange returned an incomplete session", "error", err)
		return models.NewLoginOutcome(models.LoginFailure, nil)
	}

	s.logger.Debug("login succeeded")
	return models.NewLoginOutcome(models.LoginSuccess, session)
}

// statusOutcome maps a non-200 status to a terminal result. done is false for 200.
func statusOutcome(status int) (result models.LoginResult, done bool) {
	switch status {
	case http.StatusOK:
		return models.LoginSuccess, false
	case http.StatusForbidden:
		return models.LoginBadCredentials, true
	default:
		return models.LoginFailure, true
	}
}

// ExtractAuthToken returns the remainder of the first body line beginning with "Auth=".
func ExtractAuthToken(body string) (string, error) {
	if body == "" {
		return "", fmt.Errorf("%w: empty credential response", shared.ErrDecode)
	}

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if token, ok := strings.CutPrefix(line, authMarker); ok && token != "" {
			return token, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}

	return "", fmt.Errorf("%w: no %s line in credential response", shared.ErrDecode, authMarker)
}

// AuthHeaderValue formats the Authorization header for a bearer token.
func AuthHeaderValue(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: auth token is empty", shared.ErrInvalidInput)
	}
	return authScheme + token, nil
}
