// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTokenService(t *testing.T, ttl time.Duration) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(testSecret, "test.brokerdesk.app", ttl)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_RejectsWeakSecret ensures short HMAC keys are refused at
construction time.
*/
func TestNewTokenService_RejectsWeakSecret(t *testing.T) {
	_, err := sec.NewTokenService("too-short", "iss", time.Hour)
	assert.Error(t, err)

	_, err = sec.NewTokenService(testSecret, "iss", 0)
	assert.Error(t, err)
}

/*
TestSessionToken_RoundTrip verifies that generate-then-verify reconstructs the
same subject identity and base roles.
*/
func TestSessionToken_RoundTrip(t *testing.T) {
	service := newTokenService(t, time.Hour)

	token, err := service.GenerateSessionToken("user-42", "jane@agency.test", []string{"Super_Admin", "agent"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifySessionToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "jane@agency.test", claims.Email)
	assert.Equal(t, []string{"super_admin", "agent"}, claims.Roles)
}

/*
TestGenerateSessionToken_DropsIllegitimateRoles checks that only canonical
roles can round-trip through a cookie.
*/
func TestGenerateSessionToken_DropsIllegitimateRoles(t *testing.T) {
	service := newTokenService(t, time.Hour)

	token, err := service.GenerateSessionToken("user-1", "a@b.test", []string{"superuser", "manager", ""})
	require.NoError(t, err)

	claims, err := service.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"manager"}, claims.Roles)
}

/*
TestVerifySessionToken_Failures covers tampered, garbage, and expired tokens.
All of them must come back as errors, never panics.
*/
func TestVerifySessionToken_Failures(t *testing.T) {
	service := newTokenService(t, time.Hour)

	token, err := service.GenerateSessionToken("user-1", "a@b.test", []string{"agent"})
	require.NoError(t, err)

	t.Run("tampered_signature", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
		_, err := service.VerifySessionToken(tampered)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifySessionToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := service.VerifySessionToken("")
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		shortLived, err := sec.NewTokenService(testSecret, "iss", time.Nanosecond)
		require.NoError(t, err)
		expired, err := shortLived.GenerateSessionToken("user-1", "a@b.test", []string{"agent"})
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		_, err = shortLived.VerifySessionToken(expired)
		assert.Error(t, err)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other, err := sec.NewTokenService("ffffffffffffffffffffffffffffffff", "iss", time.Hour)
		require.NoError(t, err)
		_, err = other.VerifySessionToken(token)
		assert.Error(t, err)
	})
}

/*
TestSessionFromClaims verifies session reconstruction including the assumed
role cookie path.
*/
func TestSessionFromClaims(t *testing.T) {
	claims := &sec.SessionClaims{
		UserID: "user-7",
		Email:  "ops@agency.test",
		Roles:  []string{"super_admin"},
	}

	t.Run("no_assumption", func(t *testing.T) {
		session := sec.SessionFromClaims(claims, "")
		assert.Equal(t, rbac.RoleSuperAdmin, session.HighestBaseRole())
		assert.Equal(t, rbac.RoleSuperAdmin, session.EffectiveRole())
		assert.Empty(t, string(session.AssumedRole))
	})

	t.Run("valid_downgrade", func(t *testing.T) {
		session := sec.SessionFromClaims(claims, "agent")
		assert.Equal(t, rbac.RoleAgent, session.AssumedRole)
		assert.Equal(t, rbac.RoleAgent, session.EffectiveRole())
		// Base identity is untouched by assumption.
		assert.Equal(t, rbac.RoleSuperAdmin, session.HighestBaseRole())
	})

	t.Run("upward_cookie_ignored", func(t *testing.T) {
		agentClaims := &sec.SessionClaims{UserID: "u", Email: "e@x.test", Roles: []string{"agent"}}
		session := sec.SessionFromClaims(agentClaims, "super_admin")
		assert.Empty(t, string(session.AssumedRole))
		assert.Equal(t, rbac.RoleAgent, session.EffectiveRole())
	})

	t.Run("garbage_cookie_ignored", func(t *testing.T) {
		session := sec.SessionFromClaims(claims, "root")
		assert.Empty(t, string(session.AssumedRole))
		assert.Equal(t, rbac.RoleSuperAdmin, session.EffectiveRole())
	})
}
