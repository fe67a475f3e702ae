// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/soapbox/auth"
	"github.com/danielhkuo/soapbox/cliparse"
	"github.com/danielhkuo/soapbox/middleware"
	"github.com/danielhkuo/soapbox/models"
)

type AuthHandler struct {
	cfg cliparse.Config
}

func NewAuthHandler(cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Nonce handles GET /auth/nonce
// Returns a fresh nonce and the canonical message the wallet should sign.
func (h *AuthHandler) Nonce(w http.ResponseWriter, r *http.Request) {
	nonce, err := auth.GenerateNonce()
	if err != nil {
		slog.Error("failed to generate nonce", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate nonce")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NonceResponse{
		Nonce:   nonce,
		Message: auth.SignMessage(nonce),
	})
}

// Login handles POST /auth/login
// Exchanges a signed message for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	wallet, err := auth.VerifyWallet(req.WalletAddress, req.Signature, req.Message)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid wallet signature")
		return
	}

	token, err := auth.IssueToken(wallet, h.cfg.JWTSecret, time.Now())
	if err != nil {
		slog.Error("failed to issue token", "error", err, "wallet", wallet)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("wallet signed in", "wallet", wallet)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:         token,
		WalletAddress: wallet,
	})
}
