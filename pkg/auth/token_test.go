package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "test-issuer"

// Helper to generate fresh keys for each test
func generateTestKeys(t *testing.T) ([]byte, []byte) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	pubBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	return privPEM, pubPEM
}

func signWith(t *testing.T, privPEM []byte, method jwt.SigningMethod, claims *Claims) string {
	t.Helper()
	block, _ := pem.Decode(privPEM)
	pk, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	require.NoError(t, err)
	signed, err := jwt.NewWithClaims(method, claims).SignedString(pk)
	require.NoError(t, err)
	return signed
}

func TestTokenLifecycle(t *testing.T) {
	privPEM, pubPEM := generateTestKeys(t)
	signer, err := NewSigner(privPEM, pubPEM, testIssuer)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := signer.GenerateAccessToken(userID, RoleAdmin, time.Minute)
	require.NoError(t, err)

	// A validation-only signer built from the same public key accepts the token.
	verifier, err := NewSignerFromPublicKey(pubPEM, testIssuer)
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	require.NoError(t, err)

	identity, err := claims.Identity()
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, RoleAdmin, identity.Role)
	assert.True(t, identity.IsAdmin())

	_, err = verifier.GenerateAccessToken(userID, RoleUser, time.Minute)
	assert.ErrorIs(t, err, ErrCannotSign)
}

func TestSecurityScenarios(t *testing.T) {
	privPEM, pubPEM := generateTestKeys(t)
	signer, err := NewSigner(privPEM, pubPEM, testIssuer)
	require.NoError(t, err)

	validClaims := func() *Claims {
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.New().String(),
				Issuer:    testIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: RoleUser,
		}
	}

	t.Run("Rejects Expired Token", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

		_, err := signer.ValidateToken(signWith(t, privPEM, jwt.SigningMethodRS256, claims))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Rejects Token Without Expiry", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil

		_, err := signer.ValidateToken(signWith(t, privPEM, jwt.SigningMethodRS256, claims))
		assert.Error(t, err)
	})

	t.Run("Rejects Foreign Issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "someone-else"

		_, err := signer.ValidateToken(signWith(t, privPEM, jwt.SigningMethodRS256, claims))
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("Rejects Wrong Key Signature", func(t *testing.T) {
		attackerPriv, _ := generateTestKeys(t)

		_, err := signer.ValidateToken(signWith(t, attackerPriv, jwt.SigningMethodRS256, validClaims()))
		assert.Error(t, err)
	})

	t.Run("Rejects HMAC Algorithm Confusion", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		tokenString, err := token.SignedString([]byte("some-secret"))
		require.NoError(t, err)

		_, err = signer.ValidateToken(tokenString)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected signing method: HS256")
	})

	t.Run("Rejects Malformed Token", func(t *testing.T) {
		_, err := signer.ValidateToken("this.is.garbage")
		assert.Error(t, err)
	})

	t.Run("Rejects Non UUID Subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = "not-a-uuid"

		parsed, err := signer.ValidateToken(signWith(t, privPEM, jwt.SigningMethodRS256, claims))
		require.NoError(t, err)
		_, err = parsed.Identity()
		assert.Error(t, err)
	})
}

func TestNewSignerValidation(t *testing.T) {
	_, pubPEM := generateTestKeys(t)

	_, err := NewSigner([]byte("not-a-pem"), pubPEM, testIssuer)
	assert.Error(t, err)

	_, err = NewSignerFromPublicKey([]byte("not-a-pem"), testIssuer)
	assert.Error(t, err)
}

func TestIdentity(t *testing.T) {
	var anonymous Identity
	assert.False(t, anonymous.IsAuthenticated())
	assert.False(t, anonymous.IsAdmin())

	id := NewIdentity(uuid.New(), "")
	assert.True(t, id.IsAuthenticated())
	assert.Equal(t, RoleUser, id.Role)
}
