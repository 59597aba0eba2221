package token

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
)

func newManager(secret string) *Manager {
	return NewManager(config.Config{
		JWTSecret:      secret,
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestIssueAndParse(t *testing.T) {
	m := newManager("test-secret")
	companyID := snowflake.ID(1001)
	userID := snowflake.ID(2002)

	signed, err := m.Issue(companyID, userID, tenantctx.RoleAdmin, time.Now())
	assert.NoError(t, err)

	tc, err := m.Parse(signed)
	assert.NoError(t, err)
	assert.Equal(t, companyID, tc.CompanyID)
	assert.Equal(t, userID, tc.UserID)
	assert.Equal(t, tenantctx.RoleAdmin, tc.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, err := newManager("test-secret").Issue(1, 2, tenantctx.RoleUser, time.Now())
	assert.NoError(t, err)

	_, err = newManager("other-secret").Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := newManager("test-secret")
	signed, err := m.Issue(1, 2, tenantctx.RoleUser, time.Now().Add(-time.Hour))
	assert.NoError(t, err)

	_, err = m.Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	m := newManager("test-secret")
	signed, err := m.Issue(1, 2, tenantctx.RoleUser, time.Now())
	assert.NoError(t, err)

	_, err = m.Parse(signed + "x")
	assert.Error(t, err)
}
