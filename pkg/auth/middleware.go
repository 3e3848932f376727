package auth

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"
)

const (
	tokenHeader = "Authorization"
	tokenPrefix = "Bearer "
)

// NewAuthInterceptor resolves the caller Identity from the bearer token.
// Procedures listed in publicProcedures may be called without a token and then
// run with the anonymous identity; a token that is present but invalid is
// always rejected.
func NewAuthInterceptor(signer *Signer, publicProcedures ...string) connect.UnaryInterceptorFunc {
	public := make(map[string]struct{}, len(publicProcedures))
	for _, p := range publicProcedures {
		public[p] = struct{}{}
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get(tokenHeader)
			if authHeader == "" {
				if _, ok := public[req.Spec().Procedure]; ok {
					return next(ctx, req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("missing authorization header"))
			}

			if !strings.HasPrefix(authHeader, tokenPrefix) {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid authorization header format"))
			}

			claims, err := signer.ValidateToken(strings.TrimPrefix(authHeader, tokenPrefix))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid or expired token"))
			}

			identity, err := claims.Identity()
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithIdentity(ctx, identity), req)
		}
	}
}
