package testhelpers

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floroz/marketplace/pkg/auth"
)

const TestIssuer = "marketplace-test"

// NewTestSigner returns a signer backed by a freshly generated RSA key pair,
// together with the PEM of its public key.
func NewTestSigner(t *testing.T) (*auth.Signer, []byte) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})

	pubBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})

	signer, err := auth.NewSigner(privPEM, pubPEM, TestIssuer)
	require.NoError(t, err)
	return signer, pubPEM
}
