package handler

import (
	"log/slog"
	"net/http"

	"flagpole/internal/delivery/http/response"
	"flagpole/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HashHandler holds dependencies for hashing handlers.
type HashHandler struct {
	uc     usecase.CredentialUsecase
	logger *slog.Logger
}

// NewHashHandler is the constructor for HashHandler, injected by Fx.
func NewHashHandler(uc usecase.CredentialUsecase, logger *slog.Logger) *HashHandler {
	return &HashHandler{
		uc:     uc,
		logger: logger,
	}
}

// HashRequest is the body of POST /hashes. When Key is set the digest is
// also written to that file.
type HashRequest struct {
	Secret string `json:"secret" validate:"required"`
	Salt   string `json:"salt"`
	Key    string `json:"key"`
}

// VerifyHashRequest is the body of POST /hashes/verify.
type VerifyHashRequest struct {
	Secret string `json:"secret" validate:"required"`
	Salt   string `json:"salt"`
	Key    string `json:"key" validate:"required"`
}

// HashResponse carries a hex digest.
type HashResponse struct {
	Hash string `json:"hash"`
	Key  string `json:"key,omitempty"`
}

// VerifyHashResponse reports whether the secret matched the stored digest.
type VerifyHashResponse struct {
	Match bool `json:"match"`
}

// Hash derives the digest of a secret, optionally persisting it.
func (h *HashHandler) Hash(c echo.Context) error {
	var req HashRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid hash input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	ctx := c.Request().Context()
	if req.Key == "" {
		hash, err := h.uc.HashSecret(ctx, req.Secret, req.Salt)
		if err != nil {
			return errors.WithStack(err)
		}

		return response.Success(c, http.StatusOK, HashResponse{Hash: hash}, "")
	}

	hash, err := h.uc.StoreHash(ctx, req.Secret, req.Salt, req.Key)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, HashResponse{Hash: hash, Key: req.Key}, "Hash stored successfully")
}

// Verify compares a secret with the digest stored at key.
func (h *HashHandler) Verify(c echo.Context) error {
	var req VerifyHashRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verify input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	match, err := h.uc.VerifyStored(c.Request().Context(), req.Secret, req.Salt, req.Key)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, VerifyHashResponse{Match: match}, "")
}
