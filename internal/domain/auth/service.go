// internal/domain/auth/service.go
package auth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"homefinder/internal/domain/session"
	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// ErrRegisteredSignInFailed: the account exists but the automatic sign-in
// after registering did not work. Registration is not rolled back.
var ErrRegisteredSignInFailed = stderrors.New(MsgRegisteredSignIn)

type AuthService struct {
	api       API
	session   SessionWriter
	validator Validator
	logger    *utils.Logger
}

func NewAuthService(api API, sess SessionWriter, v Validator, logger *utils.Logger) *AuthService {
	return &AuthService{
		api:       api,
		session:   sess,
		validator: v,
		logger:    logger,
	}
}

// SignIn exchanges credentials for a token and stores it. The user itself is
// fetched by the Bootstrapper reacting to the new token.
func (s *AuthService) SignIn(ctx context.Context, req *SignInRequest) (*Result, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	resp, err := s.api.Login(ctx, *req)
	if err != nil {
		s.logger.Warn("[auth] sign in for %s failed: %v", req.Email, err)
		return nil, fmt.Errorf("auth: sign in: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, errors.NewHTTPError(0, "no access token in response")
	}

	if err := s.session.SetToken(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("auth: store token: %w", err)
	}
	s.logger.Info("[auth] signed in as %s", req.Email)
	return &Result{Redirect: "/"}, nil
}

// Register creates the account and then signs in with the same credentials.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*Result, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.api.Register(ctx, *req); err != nil {
		s.logger.Warn("[auth] register %s failed: %v", req.Email, err)
		return nil, fmt.Errorf("auth: register: %w", err)
	}

	res, err := s.SignIn(ctx, &SignInRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		s.logger.Warn("[auth] registered %s but sign in failed: %v", req.Email, err)
		return &Result{Message: MsgRegisteredSignIn, Redirect: "/signin"}, fmt.Errorf("%w: %v", ErrRegisteredSignInFailed, err)
	}
	return res, nil
}

// UpdateProfile saves name and email and replaces the cached user.
func (s *AuthService) UpdateProfile(ctx context.Context, req *ProfileUpdate) (*Result, error) {
	token := s.session.Token()
	if token == "" {
		return nil, errors.NewAuthenticationError(MsgProfileSignIn)
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.api.UpdateProfile(ctx, token, *req)
	if err != nil {
		refused, clearErr := session.ClearIfUnauthorized(ctx, s.session, token, err)
		if clearErr != nil {
			s.logger.Error("[auth] %v", clearErr)
		}
		if refused {
			s.logger.Warn("[auth] backend refused the token, signed out")
			return nil, errors.NewAuthenticationError(session.MsgExpired)
		}
		s.logger.Error("[auth] profile update failed: %v", err)
		return nil, fmt.Errorf("auth: update profile: %w", err)
	}
	if !s.session.SetUser(token, user) {
		s.logger.Debug("[auth] session changed during profile update, cached user left as is")
	}
	return &Result{Message: MsgProfileUpdated, User: user}, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("auth: logout: %w", err)
	}
	return nil
}
