package httpapi

import (
	"context"

	"github.com/Overland-East-Bay/traffic-manager-api/internal/domain"
)

type principalKey struct{}

// Principal is the caller identified by a verified bearer token.
type Principal struct {
	Subject domain.NationalID
	Role    domain.Role
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.Subject != ""
}
