package metrics

import (
	"context"
	"time"

	"connectrpc.com/connect"
)

// NewInterceptor counts and times every unary Connect call.
func NewInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)

			procedure := req.Spec().Procedure
			RPCRequestDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			RPCRequestsTotal.WithLabelValues(procedure, codeLabel(err)).Inc()
			return res, err
		}
	}
}

func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return connect.CodeOf(err).String()
}
