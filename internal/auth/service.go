// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brokerdesk/brokerdesk/internal/platform/apperr"
	"github.com/brokerdesk/brokerdesk/internal/platform/constants"
	"github.com/brokerdesk/brokerdesk/internal/platform/ctxutil"
	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Contracts & Types

// AssumeDeniedError reports a role switch the assumption policy refuses.
// From and To are canonical, so the handler can echo them verbatim.
type AssumeDeniedError struct {
	From rbac.Role
	To   rbac.Role
}

func (e *AssumeDeniedError) Error() string {
	return fmt.Sprintf("auth: role %q cannot assume %q", e.From, e.To)
}

// LoginResult carries everything the delivery layer needs after a sign-in.
type LoginResult struct {
	User     *User
	Token    string
	Redirect string
}

// Service implements sign-in and role-assumption use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to password checks,
// attempt limiting, or the assumption policy must be reviewed by the
// security team.
type Service struct {
	userRepository    UserRepository
	attemptRepository AttemptRepository
	tokenService      *sec.TokenService
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, attemptRepo AttemptRepository, tokens *sec.TokenService) *Service {
	return &Service{
		userRepository:    userRepo,
		attemptRepository: attemptRepo,
		tokenService:      tokens,
	}
}

// # Sign-In Flow

/*
Login verifies credentials and mints a signed session token.

Description: Failed attempts are counted per email+client pair in Redis; once
the window limit is reached, further attempts are refused before the password
is even checked. Unknown email and wrong password produce the same
client-facing error so the endpoint cannot be used to probe which addresses
exist.

Parameters:
  - ctx: context.Context
  - email, password: submitted credentials
  - clientKey: the caller's network identity (client IP)

Returns:
  - *LoginResult: user, signed token, and the role's home redirect
  - error: apperr.RateLimited, apperr.Unauthorized, or storage errors
*/
func (service *Service) Login(ctx context.Context, email, password, clientKey string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Keyed per email+IP: one client hammering one mailbox locks only that
	// pair, not every sign-in from a shared office address.
	attemptKey := email + "|" + clientKey

	// 1. Refuse early when the pair has exhausted its attempt window.
	//    Recording before the check means the counter also grows while
	//    blocked, so hammering the endpoint never shortens the wait.
	count, err := service.attemptRepository.Record(ctx, attemptKey, constants.LoginAttemptWindow)
	if err != nil {
		// Attempt limiting is a hardening layer; a Redis outage must not
		// take sign-in down with it.
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_attempt_counter_unavailable", "error", err)
		count = 1
	}
	if count > constants.LoginAttemptLimit {
		return nil, apperr.RateLimited(int(constants.LoginAttemptWindow / time.Second))
	}

	// 2. Look up the account and verify the password.
	user, err := service.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// 3. Success: clear the attempt counter and record the sign-in.
	if err := service.attemptRepository.Reset(ctx, attemptKey); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_attempt_reset_failed", "error", err)
	}
	if err := service.userRepository.TouchLastLogin(ctx, user.ID, time.Now()); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "login_touch_failed", "error", err)
	}

	// 4. Mint the signed credential carrying the normalized base roles.
	token, err := service.tokenService.GenerateSessionToken(user.ID, user.Email, user.RoleStrings())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:     user,
		Token:    token,
		Redirect: rbac.Home(user.HighestRole()),
	}, nil
}

// SessionTTL exposes the credential lifetime for cookie Max-Age values.
func (service *Service) SessionTTL() time.Duration {
	return service.tokenService.TTL()
}

// # Role Assumption

/*
SwitchRole validates a downgrade request against the assumption policy.

Description: The target is normalized first, so "Agent" and "agent " request
the same switch. The decision is made against the caller's highest BASE role;
an already-assumed role never compounds into a further switch.

Parameters:
  - session: the verified caller session
  - rawTarget: the requested role, any legitimate spelling

Returns:
  - rbac.Role: the canonical target on success
  - string: the target role's home redirect
  - error: apperr.ValidationError for vocabulary misses, *AssumeDeniedError
    for policy refusals
*/
func (service *Service) SwitchRole(session *sec.Session, rawTarget string) (rbac.Role, string, error) {
	target := rbac.Normalize(rawTarget)
	if !target.IsValid() {
		return "", "", apperr.ValidationError("Unknown role")
	}

	base := session.HighestBaseRole()
	if !rbac.CanAssume(base, target) {
		return "", "", &AssumeDeniedError{From: base, To: target}
	}

	return target, rbac.Home(target), nil
}

// ClearRole returns the redirect for dropping any assumed role: the home of
// the caller's highest base role. Clearing with nothing assumed is a no-op
// that still lands the caller at their own home.
func (service *Service) ClearRole(session *sec.Session) string {
	return rbac.Home(session.HighestBaseRole())
}
