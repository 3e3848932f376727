package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floroz/marketplace/pkg/rpc"
)

type whoAmIRequest struct{}

type whoAmIResponse struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func TestAuthInterceptor(t *testing.T) {
	privPEM, pubPEM := generateTestKeys(t)
	signer, err := NewSigner(privPEM, pubPEM, testIssuer)
	require.NoError(t, err)

	const (
		privateProcedure = "/test.v1.WhoAmIService/WhoAmI"
		publicProcedure  = "/test.v1.WhoAmIService/Peek"
	)

	whoAmI := func(ctx context.Context, _ *connect.Request[whoAmIRequest]) (*connect.Response[whoAmIResponse], error) {
		id := IdentityFromContext(ctx)
		res := &whoAmIResponse{Role: string(id.Role)}
		if id.IsAuthenticated() {
			res.UserID = id.UserID.String()
		}
		return connect.NewResponse(res), nil
	}

	interceptors := connect.WithInterceptors(NewAuthInterceptor(signer, publicProcedure))
	mux := http.NewServeMux()
	mux.Handle(privateProcedure, connect.NewUnaryHandler(privateProcedure, whoAmI, rpc.HandlerOptions(interceptors)...))
	mux.Handle(publicProcedure, connect.NewUnaryHandler(publicProcedure, whoAmI, rpc.HandlerOptions(interceptors)...))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	privateClient := connect.NewClient[whoAmIRequest, whoAmIResponse](server.Client(), server.URL+privateProcedure, rpc.ClientOptions()...)
	publicClient := connect.NewClient[whoAmIRequest, whoAmIResponse](server.Client(), server.URL+publicProcedure, rpc.ClientOptions()...)

	userID := uuid.New()
	token, err := signer.GenerateAccessToken(userID, RoleUser, time.Minute)
	require.NoError(t, err)

	call := func(client *connect.Client[whoAmIRequest, whoAmIResponse], header string) (*connect.Response[whoAmIResponse], error) {
		req := connect.NewRequest(&whoAmIRequest{})
		if header != "" {
			req.Header().Set("Authorization", header)
		}
		return client.CallUnary(context.Background(), req)
	}

	t.Run("valid token injects identity", func(t *testing.T) {
		res, err := call(privateClient, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), res.Msg.UserID)
		assert.Equal(t, string(RoleUser), res.Msg.Role)
	})

	t.Run("missing header on private procedure", func(t *testing.T) {
		_, err := call(privateClient, "")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("missing Bearer prefix", func(t *testing.T) {
		_, err := call(privateClient, token)
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("public procedure runs anonymously", func(t *testing.T) {
		res, err := call(publicClient, "")
		require.NoError(t, err)
		assert.Empty(t, res.Msg.UserID)
	})

	t.Run("public procedure still rejects a bad token", func(t *testing.T) {
		_, err := call(publicClient, "Bearer garbage")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}
