package middleware

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-engine/services"
)

var ErrNoClaims = errors.New("organizer claims not found in context")

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*services.OrganizerClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*services.OrganizerClaims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// WithClaims stores claims the way Authenticate does.
func WithClaims(ctx context.Context, claims *services.OrganizerClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}
