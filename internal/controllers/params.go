package controllers

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "nutripae-rh/pkg/errors"
)

// idParam reads a positive integer path parameter.
func idParam(ctx echo.Context, name string) (int64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Invalid "+name+" format", err, map[string]string{name: raw})
	}
	return id, nil
}

// bindBody binds and validates the JSON body into d and hands back the raw bytes,
// which updates use to tell an explicit null from an absent key.
func bindBody(ctx echo.Context, d interface{}) ([]byte, error) {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Could not read request body", err, nil)
	}
	ctx.Request().Body = io.NopCloser(bytes.NewBuffer(rawBody))

	if err := ctx.Bind(d); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Invalid request body", err, nil)
	}
	if err := ctx.Validate(d); err != nil {
		return nil, err
	}
	return rawBody, nil
}
