package tenantctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Role is the caller's role inside (or above) a tenant.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleUser       Role = "User"
	RoleSuperAdmin Role = "SuperAdmin"
)

// TenantContext carries the validated identity claims for one request.
// It is always passed through context, never held in package state.
type TenantContext struct {
	CompanyID snowflake.ID
	UserID    snowflake.ID
	Role      Role
}

func (t TenantContext) IsSuperAdmin() bool { return t.Role == RoleSuperAdmin }

type tenantKey struct{}

// WithTenant stores the tenant context for the request.
func WithTenant(ctx context.Context, tc TenantContext) context.Context {
	return context.WithValue(ctx, tenantKey{}, tc)
}

// FromContext returns the tenant context, if set.
func FromContext(ctx context.Context) (TenantContext, bool) {
	if ctx == nil {
		return TenantContext{}, false
	}
	tc, ok := ctx.Value(tenantKey{}).(TenantContext)
	return tc, ok
}
