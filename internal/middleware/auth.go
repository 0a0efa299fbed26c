package middleware

import (
	"context"
	"strings"

	"github.com/ecohabit/backend/pkg/router"
	"github.com/ecohabit/backend/pkg/supabase"
	"github.com/ecohabit/backend/pkg/xcontext"
)

// WithRequestUser reads the subject of the bearer token, if any. Requests
// without a token or with an unreadable one go through anonymously; the
// backend verifies tokens itself.
func WithRequestUser() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return ctx, nil
		}

		token, found := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
		if !found || token == "" {
			return ctx, nil
		}

		claims, err := supabase.ParseClaims(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot parse bearer token: %v", err)
			return ctx, nil
		}

		return xcontext.WithRequestUserID(ctx, claims.Subject), nil
	}
}
