// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/Josecau2/njfinish-sub001/internal/shared"
)

// RespondError maps shared domain sentinels to RFC7807 problem responses.
// Handlers with a richer taxonomy map their own errors first and fall back
// here for the common cases.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", "")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, shared.ErrVersionMismatch):
		Problem(w, http.StatusConflict, "Version Mismatch", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
