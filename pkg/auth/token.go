package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrCannotSign is returned when a validation-only signer is asked for a token.
var ErrCannotSign = errors.New("signer has no private key")

// Claims are the access token claims shared by every marketplace service.
type Claims struct {
	jwt.RegisteredClaims
	Role  Role   `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// Identity converts the claims into the caller identity passed to the domain.
func (c *Claims) Identity() (Identity, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return NewIdentity(userID, c.Role), nil
}

// Signer handles token generation and validation.
type Signer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewSigner creates a Signer from PEM-encoded keys.
func NewSigner(privateKeyPEM, publicKeyPEM []byte, issuer string) (*Signer, error) {
	block, _ := pem.Decode(privateKeyPEM)
	if block == nil {
		return nil, errors.New("failed to parse private key PEM")
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	signer, err := NewSignerFromPublicKey(publicKeyPEM, issuer)
	if err != nil {
		return nil, err
	}
	signer.privateKey = priv
	return signer, nil
}

// NewSignerFromPublicKey creates a Signer that can only validate tokens. The
// marketplace services never mint tokens themselves.
func NewSignerFromPublicKey(publicKeyPEM []byte, issuer string) (*Signer, error) {
	blockPub, _ := pem.Decode(publicKeyPEM)
	if blockPub == nil {
		return nil, errors.New("failed to parse public key PEM")
	}
	pub, err := x509.ParsePKIXPublicKey(blockPub.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}

	return &Signer{
		publicKey: rsaPub,
		issuer:    issuer,
	}, nil
}

// GenerateAccessToken signs a short-lived RS256 token for userID.
func (s *Signer) GenerateAccessToken(userID uuid.UUID, role Role, ttl time.Duration) (string, error) {
	if s.privateKey == nil {
		return "", ErrCannotSign
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies the JWT signature, expiry and issuer.
func (s *Signer) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
