package services

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aarondl/null/v8"

	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

// patchChanges lists the top-level keys of an update body. null.* fields cannot tell
// "absent" from "null", the raw keys can.
func patchChanges(rawBody []byte) (map[string]json.RawMessage, error) {
	changes := make(map[string]json.RawMessage)
	if len(bytes.TrimSpace(rawBody)) == 0 {
		return changes, nil
	}
	if err := json.Unmarshal(rawBody, &changes); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Invalid JSON body", err, nil)
	}
	return changes, nil
}

func sent(changes map[string]json.RawMessage, key string) bool {
	_, ok := changes[key]
	return ok
}

// patchOptionalString sets dst from v, or clears it when the key was sent as null.
func patchOptionalString(dst **string, v null.String, changes map[string]json.RawMessage, key string) {
	if v.Valid {
		*dst = utils.ToPtr(v.String)
		return
	}
	if sent(changes, key) {
		*dst = nil
	}
}

func patchDate(dst *time.Time, v null.String, field string) error {
	if !v.Valid {
		return nil
	}
	d, err := utils.ParseDate(field, v.String)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
