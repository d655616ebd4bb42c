package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/marki-secure/internal/product/app"
)

var errBadID = errors.New("invalid product id")

func httpStatusFromErr(err error) int {
	switch {
	case errors.Is(err, errBadID), errors.Is(err, app.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrForbidden), errors.Is(err, app.ErrNoBrand):
		return http.StatusForbidden
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrBrandNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrAlreadyOwned), errors.Is(err, app.ErrNotAvailable), errors.Is(err, app.ErrBrandExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"error": msg}. Internal failures never leak their cause.
func writeError(c *gin.Context, err error) {
	status := httpStatusFromErr(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
