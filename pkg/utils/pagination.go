package utils

import (
	"net/url"
	"strconv"

	apperrors "nutripae-rh/pkg/errors"
)

const (
	DefaultLimit = 100
	MaxLimit     = 200
)

// ParseSkipLimit reads ?skip=&limit= the way the HR clients send them.
// skip must be >= 0 and limit within 1..MaxLimit; anything else is an InvalidArgument.
func ParseSkipLimit(values url.Values) (skip uint64, limit uint64, err error) {
	limit = DefaultLimit

	if raw := values.Get("skip"); raw != "" {
		skip, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, 0, apperrors.NewInvalidArgument("skip must be a non-negative integer")
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err = strconv.ParseUint(raw, 10, 64)
		if err != nil || limit < 1 || limit > MaxLimit {
			return 0, 0, apperrors.NewInvalidArgument("limit must be between 1 and %d", MaxLimit)
		}
	}

	return skip, limit, nil
}
