// Package token signs and verifies the HS256 access tokens carried on
// API requests.
package token

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
)

// Claims is the access token payload. Subject carries the user id.
type Claims struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret    []byte
	accessTTL time.Duration
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTokenTTL,
	}
}

// AccessTTL is the configured access token lifetime.
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Issue signs an access token for the given identity.
func (m *Manager) Issue(companyID, userID snowflake.ID, role tenantctx.Role, now time.Time) (string, error) {
	claims := Claims{
		CompanyID: companyID.String(),
		Role:      string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the tenant identity
// the token carries.
func (m *Manager) Parse(tokenString string) (tenantctx.TenantContext, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return tenantctx.TenantContext{}, err
	}

	companyID, err := snowflake.ParseString(claims.CompanyID)
	if err != nil {
		return tenantctx.TenantContext{}, err
	}
	userID, err := snowflake.ParseString(claims.Subject)
	if err != nil {
		return tenantctx.TenantContext{}, err
	}

	return tenantctx.TenantContext{
		CompanyID: companyID,
		UserID:    userID,
		Role:      tenantctx.Role(claims.Role),
	}, nil
}
