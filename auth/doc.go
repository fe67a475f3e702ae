// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides wallet sign-in and session token utilities.

# Sign-In Flow

A wallet proves ownership by signing a nonce message:

	nonce, _ := auth.GenerateNonce()
	message := auth.SignMessage(nonce)
	// wallet signs message client-side
	wallet, err := auth.VerifyWallet(address, signature, message)

Signature verification is delegated to the wallet provider; VerifyWallet
accepts any non-empty signature and normalizes the address to lower case.

# Session Tokens

Verified wallets receive an HS256 JWT valid for 7 days:

	token, err := auth.IssueToken(wallet, cfg.JWTSecret, time.Now())

Requests carry the token as a bearer credential:

	wallet, err := auth.WalletFromRequest(r, cfg.JWTSecret)

WalletFromRequest returns ErrMissingToken when no Authorization header is
present, letting read endpoints treat the caller as anonymous.

# Errors

  - ErrMissingToken: no bearer credential on the request
  - ErrInvalidToken: malformed, tampered, or expired token
  - ErrInvalidSignature: empty wallet address, signature, or message
*/
package auth
