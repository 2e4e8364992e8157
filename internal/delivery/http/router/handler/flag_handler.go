// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"flagpole/internal/delivery/http/response"
	domainerrors "flagpole/internal/domain/errors"
	"flagpole/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FlagHandler holds dependencies for flag-related handlers.
type FlagHandler struct {
	uc     usecase.FlagUsecase
	logger *slog.Logger
}

// NewFlagHandler is the constructor for FlagHandler, injected by Fx.
func NewFlagHandler(uc usecase.FlagUsecase, logger *slog.Logger) *FlagHandler {
	return &FlagHandler{
		uc:     uc,
		logger: logger,
	}
}

// AddFlagRequest is the body of POST /flags.
type AddFlagRequest struct {
	View  string `json:"view"`
	Value *bool  `json:"value" validate:"required"`
}

// BuildFlagRequest is the body of POST /flags/build. The size ceiling
// equals entity.MaxFlagSize; flags.maxSize may lower it further.
type BuildFlagRequest struct {
	Size    int   `json:"size" validate:"gte=0,lte=16777216"`
	Initial bool  `json:"initial"`
	Set     []int `json:"set" validate:"dive,gte=0"`
	Reset   []int `json:"reset" validate:"dive,gte=0"`
}

// FindFlagQuery is the query of GET /flags.
type FindFlagQuery struct {
	View string `query:"view" validate:"required,flagview"`
}

// FlagIDResponse is returned by lookups and writes that yield an ID.
type FlagIDResponse struct {
	ID int64 `json:"id"`
}

// AddFlag stores a view with its aggregate value and responds with the
// created record's ID. Malformed views are reported as 422.
func (h *FlagHandler) AddFlag(c echo.Context) error {
	var req AddFlagRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid flag input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	record, err := h.uc.StoreFlag(c.Request().Context(), req.View, *req.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, FlagIDResponse{ID: record.ID}, "Flag stored successfully")
}

// BuildFlag builds a flag set from size, initial value and index edits, then stores it.
func (h *FlagHandler) BuildFlag(c echo.Context) error {
	var req BuildFlagRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid flag build input")
	}
	if err := c.Validate(&req); err != nil {
		return response.ValidationError(c, err)
	}

	record, err := h.uc.BuildFlag(c.Request().Context(), &usecase.FlagBuildInput{
		Size:    req.Size,
		Initial: req.Initial,
		Set:     req.Set,
		Reset:   req.Reset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, record, "Flag built successfully")
}

// FindFlagID returns the newest ID stored for the view in the query.
func (h *FlagHandler) FindFlagID(c echo.Context) error {
	var query FindFlagQuery
	if err := c.Bind(&query); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid flag query")
	}
	if err := c.Validate(&query); err != nil {
		return response.ValidationError(c, err)
	}

	id, err := h.uc.GetFlagID(c.Request().Context(), query.View)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, FlagIDResponse{ID: id}, "")
}

// GetFlag returns the view and value stored under an ID.
func (h *FlagHandler) GetFlag(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Flag ID must be an integer")
	}

	snapshot, err := h.uc.GetFlag(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}
	if !snapshot.Found() {
		return domainerrors.ErrFlagNotFound
	}

	return response.Success(c, http.StatusOK, snapshot, "")
}
